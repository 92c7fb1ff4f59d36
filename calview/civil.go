package calview

import (
	"fmt"
	"time"
)

// DateLayout is the civil date form used across all event records.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a civil date, represented as
// midnight UTC. The UTC location is just a carrier; no timezone conversion
// happens anywhere in this package.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// FormatDate renders a civil date back into YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock parses an HH:MM string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("ParseClock: %w", err)
	}
	return t.Hour(), t.Minute(), nil
}

// Day truncates an instant to its civil date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// combine attaches a clock time to a civil date.
func combine(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// instant parses a date + clock pair into one civil instant.
func instant(dateStr, clockStr string) (time.Time, error) {
	date, err := ParseDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clockStr)
	if err != nil {
		return time.Time{}, err
	}
	return combine(date, hour, minute), nil
}

// sameDate reports whether two instants fall on the same civil date.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
