package interns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/models"
)

const internColumns = `id, full_name, email, domain, start_date, end_date, certificate_id, created_by, status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, i *models.Intern) error {
	query := `
		INSERT INTO interns (` + internColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		i.ID, i.FullName, i.Email, i.Domain, i.StartDate, i.EndDate,
		i.CertificateID, i.CreatedBy, i.Status, i.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIntern(row rowScanner) (*models.Intern, error) {
	i := &models.Intern{}
	err := row.Scan(&i.ID, &i.FullName, &i.Email, &i.Domain, &i.StartDate, &i.EndDate,
		&i.CertificateID, &i.CreatedBy, &i.Status, &i.CreatedAt)
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Intern, error) {
	query := `
		SELECT ` + internColumns + `
		FROM interns
		WHERE id = $1
	`
	i, err := scanIntern(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return i, nil
}

// escapeLike quotes the LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildFilter(ownerID string, f models.InternFilter) (string, []any) {
	where := []string{"created_by = $1"}
	args := []any{ownerID}

	if f.Domain != "" {
		args = append(args, f.Domain)
		where = append(where, fmt.Sprintf("domain = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where = append(where, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}

	return strings.Join(where, " AND "), args
}

func (r *PostgresRepository) List(ctx context.Context, ownerID string, f models.InternFilter) ([]*models.Intern, int64, error) {
	where, args := buildFilter(ownerID, f)

	var total int64
	countQuery := `SELECT COUNT(*) FROM interns WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	query := `SELECT ` + internColumns + ` FROM interns WHERE ` + where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	result := make([]*models.Intern, 0)
	for rows.Next() {
		i, err := scanIntern(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", dbx.Classify(err))
	}

	return result, total, nil
}

func (r *PostgresRepository) Domains(ctx context.Context, ownerID string) ([]string, error) {
	query := `
		SELECT DISTINCT domain
		FROM interns
		WHERE created_by = $1
		ORDER BY domain
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	defer rows.Close()

	domains := make([]string, 0)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return domains, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE i.status = 'completed'),
			COUNT(*) FILTER (WHERE i.status = 'active'),
			COALESCE(SUM(v.verification_count), 0)
		FROM interns i
		LEFT JOIN verifications v ON v.intern_id = i.id
		WHERE i.created_by = $1
	`
	s := &models.Stats{}
	err := r.db.QueryRowContext(ctx, query, ownerID).
		Scan(&s.TotalInterns, &s.GeneratedCertificates, &s.ActiveInternships, &s.Verifications)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return s, nil
}
