// Package datex models calendar dates without a time component and the
// legacy timestamp form some stored records still carry.
//
// Every date entering the system is canonicalized to a CalendarDate before
// any comparison or arithmetic is performed on it.
package datex

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Layout is the only accepted textual form of a calendar date.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// CalendarDate is a year/month/day triple. The zero value means "no date".
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses s strictly as YYYY-MM-DD.
func ParseDate(s string) (CalendarDate, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// FromTime takes the calendar date of t in t's own location.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

func (d CalendarDate) Before(o CalendarDate) bool {
	return d.Time().Before(o.Time())
}

func (d CalendarDate) After(o CalendarDate) bool {
	return d.Time().After(o.Time())
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string, null, or a legacy
// {"seconds": n} object.
func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		var legacy LegacyTimestamp
		if err := json.Unmarshal(trimmed, &legacy); err != nil {
			return err
		}
		c, err := Canonicalize(legacy)
		if err != nil {
			return err
		}
		*d = c
		return nil
	}

	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*d = CalendarDate{}
		return nil
	}
	parsed, err := ParseDate(*s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan accepts what database drivers return for DATE columns.
func (d *CalendarDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = CalendarDate{}
		return nil
	case time.Time:
		*d = FromTime(v)
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	case int64:
		c, err := Canonicalize(LegacyTimestamp{Seconds: v})
		if err != nil {
			return err
		}
		*d = c
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidDate, src)
	}
}

func (d *CalendarDate) scanText(s string) error {
	if len(s) > len(Layout) {
		s = s[:len(Layout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}
