// Package validation checks operator-supplied intern and settings data before
// anything is issued or stored.
package validation

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *Error via errors.Is.
var ErrValidation = errors.New("validation failed")

// Kind classifies a validation failure.
type Kind string

const (
	KindMissingField      Kind = "missing_field"
	KindInvalidEmail      Kind = "invalid_email"
	KindInvalidDateFormat Kind = "invalid_date_format"
	KindInvalidDateRange  Kind = "invalid_date_range"
	KindInvalidStatus     Kind = "invalid_status"
	KindInvalidImage      Kind = "invalid_image"
	KindInvalidTemplate   Kind = "invalid_template"
)

// Error identifies the offending field and the kind of failure.
type Error struct {
	Kind  Kind
	Field string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingField:
		return fmt.Sprintf("%s is required", e.Field)
	case KindInvalidEmail:
		return fmt.Sprintf("%s must be a valid email address", e.Field)
	case KindInvalidDateFormat:
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", e.Field)
	case KindInvalidDateRange:
		return "endDate must be after startDate"
	case KindInvalidStatus:
		return fmt.Sprintf("%s must be 'active' or 'completed'", e.Field)
	case KindInvalidImage:
		return fmt.Sprintf("%s must be a data URL, an http(s) URL or an s3:// reference", e.Field)
	case KindInvalidTemplate:
		return fmt.Sprintf("%s must be one of classic, modern, elegant", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

func (e *Error) Is(target error) bool {
	return target == ErrValidation
}
