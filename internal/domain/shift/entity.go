package shift

import (
	"time"
)

// Weekdays is a bitset of the seven weekdays, bit 0 = Sunday through
// bit 6 = Saturday, matching time.Weekday values.
type Weekdays uint8

// WeekdaysMonFri covers Monday through Friday.
const WeekdaysMonFri Weekdays = 0b0111110

// ActiveOn reports whether d is an active day of the bitset.
func (w Weekdays) ActiveOn(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// With returns the bitset with d set.
func (w Weekdays) With(d time.Weekday) Weekdays {
	return w | (1 << uint(d))
}

// Shift is a work schedule template. Once referenced by historical
// attendance it is treated as immutable; edits apply prospectively only.
type Shift struct {
	ID        string
	Name      string
	StartTime time.Time // clock component only
	EndTime   time.Time // clock component only
	Weekdays  Weekdays
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartOn anchors the shift's start clock time onto the given calendar date.
func (s Shift) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		s.StartTime.Hour(), s.StartTime.Minute(), 0, 0, date.Location())
}

// EndOn anchors the shift's end clock time onto the given calendar date.
// Shifts crossing midnight end on the following day.
func (s Shift) EndOn(date time.Time) time.Time {
	end := time.Date(date.Year(), date.Month(), date.Day(),
		s.EndTime.Hour(), s.EndTime.Minute(), 0, 0, date.Location())
	if !end.After(s.StartOn(date)) {
		end = end.Add(24 * time.Hour)
	}
	return end
}

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}
