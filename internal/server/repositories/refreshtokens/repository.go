// Package refreshtokens declares the server-side repository contract for
// managing refresh tokens in persistent storage.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking refresh tokens.
type Repository interface {
	// Create stores a new refresh token.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks up a refresh token by its opaque token string.
	// It returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete removes a refresh token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, token string) error
}
