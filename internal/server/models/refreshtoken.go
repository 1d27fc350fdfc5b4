package models

import "time"

// RefreshToken is a server-stored, single-use token that can be exchanged
// for a new access token until ExpiresAt.
type RefreshToken struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}
