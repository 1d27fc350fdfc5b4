package validation

import (
	"strings"

	"github.com/dmitrijs2005/certifier/internal/datex"
	"github.com/dmitrijs2005/certifier/internal/server/models"
)

var validate = newValidator()

// Candidate is an unvalidated intern as submitted by an operator, one form
// field or CSV cell per attribute.
type Candidate struct {
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Domain    string `json:"domain"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

// Validated is a Candidate that passed ValidateIntern, with parsed dates and
// the status defaulted.
type Validated struct {
	FullName  string
	Email     string
	Domain    string
	StartDate datex.CalendarDate
	EndDate   datex.CalendarDate
	Status    string
}

// ValidateIntern runs the checks in a fixed order and reports only the first
// failure:
//
//  1. fullName, domain, startDate and endDate are present
//  2. email, when given, is a valid address
//  3. both dates parse as YYYY-MM-DD
//  4. endDate is strictly after startDate
//  5. status, when given, is active or completed
//
// A missing status defaults to active.
func ValidateIntern(c Candidate) (*Validated, error) {
	c = trim(c)

	for _, f := range []struct{ name, value string }{
		{"fullName", c.FullName},
		{"domain", c.Domain},
		{"startDate", c.StartDate},
		{"endDate", c.EndDate},
	} {
		if f.value == "" {
			return nil, &Error{Kind: KindMissingField, Field: f.name}
		}
	}

	if c.Email != "" {
		if err := validate.Var(c.Email, "email"); err != nil {
			return nil, &Error{Kind: KindInvalidEmail, Field: "email"}
		}
	}

	start, err := datex.ParseDate(c.StartDate)
	if err != nil {
		return nil, &Error{Kind: KindInvalidDateFormat, Field: "startDate"}
	}
	end, err := datex.ParseDate(c.EndDate)
	if err != nil {
		return nil, &Error{Kind: KindInvalidDateFormat, Field: "endDate"}
	}

	if !end.After(start) {
		return nil, &Error{Kind: KindInvalidDateRange, Field: "endDate"}
	}

	status := c.Status
	switch status {
	case "":
		status = models.StatusActive
	case models.StatusActive, models.StatusCompleted:
	default:
		return nil, &Error{Kind: KindInvalidStatus, Field: "status"}
	}

	return &Validated{
		FullName:  c.FullName,
		Email:     c.Email,
		Domain:    c.Domain,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}, nil
}

func trim(c Candidate) Candidate {
	return Candidate{
		FullName:  strings.TrimSpace(c.FullName),
		Email:     strings.TrimSpace(c.Email),
		Domain:    strings.TrimSpace(c.Domain),
		StartDate: strings.TrimSpace(c.StartDate),
		EndDate:   strings.TrimSpace(c.EndDate),
		Status:    strings.TrimSpace(c.Status),
	}
}
