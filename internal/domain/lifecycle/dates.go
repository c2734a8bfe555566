// Package lifecycle holds the pure task lifecycle rules: date
// normalization and the status/start-time decision policy. It performs no
// I/O; callers pass the current time explicitly so the rules stay
// deterministic and testable.
package lifecycle

import (
	"fmt"
	"time"
)

// FixedDate returns a timestamp pinned to 12:00:00 UTC on t's calendar
// date, read in t's own location.
//
// Date-only values stored as midnight UTC shift to the previous local day
// in any timezone west of UTC; noon UTC keeps the calendar date stable
// across the full ±12h offset range.
func FixedDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseFixedDate parses a client-supplied date string and returns its
// fixed-date form. It accepts RFC 3339 timestamps and bare YYYY-MM-DD
// dates; in both cases only the calendar date components are kept.
func ParseFixedDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FixedDate(t), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FixedDate(t), nil
}

// DateOnly strips the time of day from t, returning midnight UTC on t's
// calendar date. This is the canonical expiry boundary: a noon-UTC fixed
// deadline on day D compares before DateOnly(now) exactly when D is before
// today's calendar date. Every expiry check in the system, whether in Go or
// in SQL, compares against this boundary.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date per the supplied clock, with the
// time of day stripped.
func Today(now time.Time) time.Time {
	return DateOnly(now)
}

// IsBeforeToday reports whether t's calendar date is strictly before
// today's calendar date per the supplied clock.
func IsBeforeToday(t, now time.Time) bool {
	return DateOnly(t).Before(Today(now))
}
