package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO user_settings (user_id, company_name, company_logo, supervisor_name, supervisor_signature,
			ceo_name, ceo_signature, selected_template, setup_completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_logo = EXCLUDED.company_logo,
			supervisor_name = EXCLUDED.supervisor_name,
			supervisor_signature = EXCLUDED.supervisor_signature,
			ceo_name = EXCLUDED.ceo_name,
			ceo_signature = EXCLUDED.ceo_signature,
			selected_template = EXCLUDED.selected_template,
			setup_completed = EXCLUDED.setup_completed,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		s.UserID, s.CompanyName, s.CompanyLogo, s.SupervisorName, s.SupervisorSignature,
		s.CEOName, s.CEOSignature, s.SelectedTemplate, s.SetupCompleted, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Settings, error) {
	query := `
		SELECT user_id, company_name, company_logo, supervisor_name, supervisor_signature,
			ceo_name, ceo_signature, selected_template, setup_completed, created_at
		FROM user_settings
		WHERE user_id = $1
	`
	s := &models.Settings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.CompanyName, &s.CompanyLogo, &s.SupervisorName, &s.SupervisorSignature,
		&s.CEOName, &s.CEOSignature, &s.SelectedTemplate, &s.SetupCompleted, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", dbx.Classify(err))
	}
	return s, nil
}
