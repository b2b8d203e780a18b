package process

import (
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the textual convention used across the JSON store and the
// rendered reports.
const DateLayout = "02/01/2006"

// dateLayoutShort covers legacy records written with two-digit years.
const dateLayoutShort = "02/01/06"

// Date is a day-granularity calendar value. The zero value means "absent":
// records imported from older spreadsheets frequently carry empty or
// malformed date strings, and those must never fail a load.
type Date struct {
	t time.Time
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate reads a DD/MM/YYYY (or legacy DD/MM/YY) string. Anything that
// does not parse yields the zero Date.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return Date{t: t}
	}
	if t, err := time.ParseInLocation(dateLayoutShort, s, time.UTC); err == nil {
		return Date{t: t}
	}
	return Date{}
}

// IsZero reports whether the date is absent.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String renders the date in the DD/MM/YYYY convention, or "" when absent.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return Date{}
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Equal reports whether both values name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// DaysUntil counts the whole days from d to other. Negative when other is
// earlier than d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// Time exposes the underlying instant at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// MarshalJSON writes the DD/MM/YYYY string form.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the string form, degrading silently to the zero
// value on malformed input.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*d = Date{}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
