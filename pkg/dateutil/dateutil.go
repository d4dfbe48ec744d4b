// Package dateutil handles calendar dates. A calendar date is represented
// as a time.Time at midnight UTC so it compares and persists the same way
// regardless of the server's zone.
package dateutil

import (
	"time"
)

// Layout is the only accepted wire format for dates.
const Layout = "2006-01-02"

// Parse parses a YYYY-MM-DD string into a calendar date.
func Parse(s string) (time.Time, error) {
	return time.Parse(Layout, s)
}

// Format renders a calendar date as YYYY-MM-DD.
func Format(d time.Time) string {
	return d.Format(Layout)
}

// DateOf returns the calendar date of t as observed in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now.In(loc))
}

// StartOfWeek returns the Monday on or before d.
func StartOfWeek(d time.Time) time.Time {
	d = DateOf(d)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// Week returns the seven calendar dates of the Monday-aligned week containing d.
func Week(d time.Time) []time.Time {
	start := StartOfWeek(d)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}
