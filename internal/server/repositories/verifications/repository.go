// Package verifications stores the public lookup counter of each certificate.
package verifications

import (
	"context"
	"time"

	"github.com/dmitrijs2005/certifier/internal/server/models"
)

type Repository interface {
	// Create inserts a fresh counter, normally in the same transaction as its intern.
	Create(ctx context.Context, v *models.Verification) error
	// Get returns common.ErrorNotFound for an unknown certificate id.
	Get(ctx context.Context, certificateID string) (*models.Verification, error)
	// Increment atomically adds one to the counter, stamps it with at and
	// returns the updated record. It never creates a record; an unknown
	// certificate id yields common.ErrorNotFound.
	Increment(ctx context.Context, certificateID string, at time.Time) (*models.Verification, error)
}
