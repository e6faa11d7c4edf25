// Package timeutil provides calendar helpers anchored to US Eastern time.
// The NBA schedules and reports games on the Eastern calendar date, so all
// "today"/"yesterday" logic in game discovery goes through this package.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// EasternTZ is the NBA game calendar timezone. A fixed -5h offset is used so
// the binary does not depend on host tzdata; the one-hour DST skew only
// widens the two-day discovery window, never narrows it.
var EasternTZ = time.FixedZone("America/New_York", -5*60*60)

// Now returns the current time in Eastern time.
func Now() time.Time {
	return time.Now().In(EasternTZ)
}

// ToEastern converts a time to Eastern time.
func ToEastern(t time.Time) time.Time {
	return t.In(EasternTZ)
}

// StartOfDay returns the start of the day (00:00:00) in Eastern time.
func StartOfDay(t time.Time) time.Time {
	e := ToEastern(t)
	return time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, EasternTZ)
}

// SameDay reports whether two times fall on the same Eastern calendar date.
func SameDay(a, b time.Time) bool {
	ae, be := ToEastern(a), ToEastern(b)
	return ae.Year() == be.Year() && ae.Month() == be.Month() && ae.Day() == be.Day()
}

// GameDate formats a time as the YYYY-MM-DD date string used by the
// upstream scoreboard endpoint.
func GameDate(t time.Time) string {
	return ToEastern(t).Format("2006-01-02")
}

// DateWindow returns the calendar dates to scan for a rolling window ending
// at t: yesterday first, then today. Games that tip off before midnight and
// finish after it appear under yesterday's date, so both days are checked.
func DateWindow(t time.Time) [2]time.Time {
	today := StartOfDay(t)
	return [2]time.Time{today.AddDate(0, 0, -1), today}
}
