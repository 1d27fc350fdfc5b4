package models

import "time"

// User is an operator account. Interns and settings are owned by it.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
