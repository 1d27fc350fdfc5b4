package models

import "time"

// Verification counts public lookups of one certificate. LastVerified is nil
// until the first lookup.
type Verification struct {
	CertificateID string
	InternID      string
	Count         int64
	LastVerified  *time.Time
}
