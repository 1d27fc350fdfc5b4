// Package settings stores per-account branding and template choice.
package settings

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/server/models"
)

type Repository interface {
	// Upsert writes the whole settings row for s.UserID, replacing any previous one.
	Upsert(ctx context.Context, s *models.Settings) error
	// Get returns common.ErrorNotFound when the account has never saved settings.
	Get(ctx context.Context, userID string) (*models.Settings, error)
}
