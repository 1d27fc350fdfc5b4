package models

import (
	"time"

	"github.com/dmitrijs2005/certifier/internal/datex"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Intern is the subject of one certificate. Records are append-only.
type Intern struct {
	ID            string
	FullName      string
	Email         string
	Domain        string
	StartDate     datex.CalendarDate
	EndDate       datex.CalendarDate
	CertificateID string
	CreatedBy     string
	Status        string
	CreatedAt     time.Time
}

// InternFilter narrows an owner-scoped listing. Empty fields match everything.
type InternFilter struct {
	Domain string
	Search string
	Limit  int
	Offset int
}
