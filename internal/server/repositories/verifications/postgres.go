package verifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.Verification) error {
	query := `
		INSERT INTO verifications (certificate_id, intern_id, verification_count, last_verified)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, v.CertificateID, v.InternID, v.Count, v.LastVerified); err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return nil
}

func (r *PostgresRepository) scan(row *sql.Row) (*models.Verification, error) {
	v := &models.Verification{}
	var last sql.NullTime
	if err := row.Scan(&v.CertificateID, &v.InternID, &v.Count, &last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	if last.Valid {
		v.LastVerified = &last.Time
	}
	return v, nil
}

func (r *PostgresRepository) Get(ctx context.Context, certificateID string) (*models.Verification, error) {
	query := `
		SELECT certificate_id, intern_id, verification_count, last_verified
		FROM verifications
		WHERE certificate_id = $1
	`
	return r.scan(r.db.QueryRowContext(ctx, query, certificateID))
}

// Increment relies on the row lock taken by UPDATE, so concurrent callers
// never lose an increment.
func (r *PostgresRepository) Increment(ctx context.Context, certificateID string, at time.Time) (*models.Verification, error) {
	query := `
		UPDATE verifications
		SET verification_count = verification_count + 1, last_verified = $2
		WHERE certificate_id = $1
		RETURNING certificate_id, intern_id, verification_count, last_verified
	`
	return r.scan(r.db.QueryRowContext(ctx, query, certificateID, at))
}
