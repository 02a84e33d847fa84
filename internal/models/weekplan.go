package models

import "time"

// Weekday keys a day slot inside a week plan
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays is the fixed iteration order used for recipe distribution
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// IsValid reports whether d is one of the seven weekday keys
func (d Weekday) IsValid() bool {
	for _, day := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// WeekPlan maps each weekday to an ordered list of recipes for one week.
// Exactly one plan exists per (week number, year) pair.
type WeekPlan struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	WeekNumber int                  `json:"weekNumber"`
	Year       int                  `json:"year"`
	Date       time.Time            `json:"date"`
	Days       map[Weekday][]Recipe `json:"days"`
}

// NewDays returns the fixed 7-key day map with empty recipe lists
func NewDays() map[Weekday][]Recipe {
	days := make(map[Weekday][]Recipe, len(Weekdays))
	for _, day := range Weekdays {
		days[day] = []Recipe{}
	}
	return days
}
