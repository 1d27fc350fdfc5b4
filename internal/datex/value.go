package datex

import (
	"fmt"
	"math"
	"time"
)

// DateValue is either a CalendarDate or a LegacyTimestamp.
type DateValue interface {
	dateValue()
}

// LegacyTimestamp is a seconds-since-epoch instant, the representation some
// older records used for dates.
type LegacyTimestamp struct {
	Seconds int64 `json:"seconds"`
}

func (CalendarDate) dateValue()    {}
func (LegacyTimestamp) dateValue() {}

// Canonicalize converts either representation to a CalendarDate.
// Legacy timestamps are read in UTC.
func Canonicalize(v DateValue) (CalendarDate, error) {
	switch d := v.(type) {
	case CalendarDate:
		if d.IsZero() {
			return CalendarDate{}, fmt.Errorf("%w: empty", ErrInvalidDate)
		}
		return d, nil
	case LegacyTimestamp:
		return FromTime(time.Unix(d.Seconds, 0).UTC()), nil
	default:
		return CalendarDate{}, fmt.Errorf("%w: unsupported value %T", ErrInvalidDate, v)
	}
}

// Duration describes the span from start to end as whole calendar months,
// or as days when less than a month boundary separates them.
func Duration(start, end CalendarDate) string {
	months := (end.Year-start.Year)*12 + int(end.Month-start.Month)
	if months <= 0 {
		days := int(math.Ceil(end.Time().Sub(start.Time()).Hours() / 24))
		return plural(days, "day")
	}
	return plural(months, "month")
}

// Format renders d for display.
func Format(d CalendarDate) string {
	return d.String()
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
