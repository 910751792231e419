package domain

import (
	"fmt"
	"time"
)

// DateLayout is the date-only form used by the picker and the CLI.
const DateLayout = "2006-01-02"

// DateRange is the user's date selection. Both ends are inclusive.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// IsZero reports whether neither end has been set.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t lies within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Clamp restricts the range to bounds. An inverted range stays inverted.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	out := r
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.Start.After(bounds.End) {
		out.Start = bounds.End
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.End.Before(bounds.Start) {
		out.End = bounds.Start
	}
	return out
}

// ParseDate accepts YYYY-MM-DD, read as midnight UTC, or an RFC 3339
// timestamp, converted to UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: want YYYY-MM-DD or RFC 3339", value)
	}
	return t.UTC(), nil
}
