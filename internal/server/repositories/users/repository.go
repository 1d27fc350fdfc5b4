// Package users declares and implements storage of operator accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills in its generated ID and CreatedAt.
	// A taken username yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound for an unknown username.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}
