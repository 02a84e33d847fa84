// Package week derives the (ISO week number, year) key that identifies both
// week plans and shopping lists, and formats the Monday-Sunday display range.
package week

import (
	"fmt"
	"time"
)

// Key is the natural identifier for per-week entities
type Key struct {
	Week int
	Year int
}

// KeyFor returns the ISO week key for the given date
func KeyFor(date time.Time) Key {
	year, wk := date.ISOWeek()
	return Key{Week: wk, Year: year}
}

// KeyAhead returns the key for the week weeksAhead weeks after now
func KeyAhead(now time.Time, weeksAhead int) Key {
	return KeyFor(now.AddDate(0, 0, weeksAhead*7))
}

// ID returns the stable entity id derived from the key: "week-<n>-<year>"
func (k Key) ID() string {
	return fmt.Sprintf("week-%d-%d", k.Week, k.Year)
}

// Monday returns the Monday of the ISO week containing date
func Monday(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started six days earlier
	}
	return date.AddDate(0, 0, 1-weekday)
}

// Range formats the Monday-Sunday span of the week containing date as
// "DD.MM.YYYY - DD.MM.YYYY"
func Range(date time.Time) (start, end string) {
	monday := Monday(date)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("02.01.2006"), sunday.Format("02.01.2006")
}

// DisplayName builds the user-facing name for a week's plan or list,
// e.g. "Week 12 (17.03.2025 - 23.03.2025)"
func DisplayName(date time.Time) string {
	k := KeyFor(date)
	start, end := Range(date)
	return fmt.Sprintf("Week %d (%s - %s)", k.Week, start, end)
}
