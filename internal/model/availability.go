package model

import (
	"time"
)

// Weekday is the canonical day-of-week code used by the availability
// configuration. JSON keys and stored values use these codes.
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

// WeekdayOrder lists the canonical codes Monday through Sunday.
var WeekdayOrder = []Weekday{
	Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday,
}

// WeekdayOf maps a calendar date to its canonical code.
func WeekdayOf(t time.Time) Weekday {
	switch t.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// TimeRange is a contiguous time-of-day window within which slots are
// generated. Start and End are 24-hour "HH:MM" clock strings, Start < End.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DaySchedule holds the bookable windows of a single weekday. A day with
// Active false, or with no ranges, yields no slots.
type DaySchedule struct {
	Active bool        `json:"active"`
	Ranges []TimeRange `json:"ranges,omitempty"`
}

// WeeklyAvailability is the clinic's persisted availability configuration.
// Days is the granular per-weekday representation; the flat working-days
// fields are the legacy representation kept as a fallback for weekdays that
// have no granular entry.
type WeeklyAvailability struct {
	SessionDuration int                     `json:"session_duration"`
	Days            map[Weekday]DaySchedule `json:"days,omitempty"`

	// Legacy fields, superseded by Days but still honored.
	WorkingDays []Weekday `json:"working_days,omitempty"`
	StartHour   string    `json:"start_hour,omitempty"`
	EndHour     string    `json:"end_hour,omitempty"`
	LunchStart  string    `json:"lunch_start,omitempty"`
	LunchEnd    string    `json:"lunch_end,omitempty"`
}

// DayAvailability is the computed availability of one calendar date.
type DayAvailability struct {
	Date           string   `json:"date"`
	Day            Weekday  `json:"day"`
	AvailableSlots []string `json:"available_slots"`
	Message        string   `json:"message,omitempty"`
}

type UpdateAvailabilityRequest struct {
	SessionDuration int                     `json:"session_duration" binding:"required,gt=0"`
	Days            map[Weekday]DaySchedule `json:"days" binding:"required"`
}
