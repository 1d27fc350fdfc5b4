// Package interns stores intern records. Records are append-only: there is
// no update or delete operation.
package interns

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/server/models"
)

type Repository interface {
	// Create inserts a fully populated intern. A reused certificate id yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, intern *models.Intern) error
	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.Intern, error)
	// List returns the owner's interns matching filter, newest first, together
	// with the number of matches ignoring Limit/Offset.
	List(ctx context.Context, ownerID string, filter models.InternFilter) ([]*models.Intern, int64, error)
	// Domains returns the owner's distinct domains in alphabetical order.
	Domains(ctx context.Context, ownerID string) ([]string, error)
	// Stats aggregates the owner's interns and their verification counters.
	Stats(ctx context.Context, ownerID string) (*models.Stats, error)
}
