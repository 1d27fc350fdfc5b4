package models

import "time"

// Certificate templates an account can pick from.
const (
	TemplateClassic = "classic"
	TemplateModern  = "modern"
	TemplateElegant = "elegant"
)

// Templates lists every accepted template identifier.
var Templates = []string{TemplateClassic, TemplateModern, TemplateElegant}

// Settings holds the branding of one account. Image fields carry a data URL,
// an http(s) URL or an s3://key reference.
type Settings struct {
	UserID              string
	CompanyName         string
	CompanyLogo         string
	SupervisorName      string
	SupervisorSignature string
	CEOName             string
	CEOSignature        string
	SelectedTemplate    string
	SetupCompleted      bool
	CreatedAt           time.Time
}
