package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day: year, month, day, no time-of-day and no time zone.
// Trip records carry a Date, never a timestamp — two records logged on the
// same day in different time zones are the same day. All range comparisons
// go through Canonical, which pins the day to a fixed noon-UTC instant so
// that zone offsets can never shift a record across a day boundary.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from its components. No range checking is done;
// use ParseDate for untrusted input.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the "YYYY-MM-DD" prefix of s. Anything after a 'T' (an
// ISO timestamp suffix) or beyond the first ten characters is ignored, so a
// full RFC 3339 string and a bare date parse to the same Date.
func ParseDate(s string) (Date, error) {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	} else if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is the zero Date, the decoded form of a missing
// or unparseable stored date. Zero dates are excluded by period filters and
// rejected by record validation.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String formats d as "YYYY-MM-DD". The zero Date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Canonical returns the fixed reference instant for d: noon UTC of that day.
// Noon keeps the instant at least 12 hours from either midnight, so no real
// zone offset can move it into a neighboring day.
func (d Date) Canonical() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Canonical().AddDate(0, 0, n))
}

// Before reports whether d is an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Canonical().Before(other.Canonical())
}

// MarshalJSON encodes d as a "YYYY-MM-DD" string ("" for the zero Date).
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a stored date string. Decoding is deliberately
// lenient: an empty or unparseable string becomes the zero Date instead of
// an error, so one bad record never blocks loading the whole list.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		*d = Date{}
		return nil
	}
	*d = parsed
	return nil
}
