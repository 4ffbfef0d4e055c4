package types

import (
	"fmt"
	"time"
)

// Status is a participant's state for a time slot.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
)

// Opposite returns the other status. Setting one status for a slot always
// clears the other for the same participant.
func (s Status) Opposite() Status {
	if s == StatusAvailable {
		return StatusUnavailable
	}
	return StatusAvailable
}

// Working-hour band used when a statement names a day but no hour.
// Direct edits may address the full 0-23 range. Overridable from config
// at startup, before any extraction runs.
var (
	BandStart = 8
	BandEnd   = 23
)

const (
	// DateLayout is the canonical day key ("2024-01-02").
	DateLayout = "2006-01-02"
	// SlotLayout is the canonical slot key; minutes are always 00.
	SlotLayout = "2006-01-02 15:04"
)

// TimeSlot is the finest unit of availability: one hour of one day.
type TimeSlot struct {
	Date string // DateLayout
	Hour int    // 0-23
}

// SlotAt builds the slot containing t.
func SlotAt(t time.Time) TimeSlot {
	return TimeSlot{Date: t.Format(DateLayout), Hour: t.Hour()}
}

// Key returns the canonical index key, e.g. "2024-01-02 19:00".
func (s TimeSlot) Key() string {
	return fmt.Sprintf("%s %02d:00", s.Date, s.Hour)
}

// DateKey returns the canonical day key for t.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Monday of t's week.
func WeekStart(t time.Time) time.Time {
	t = StartOfDay(t)
	back := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -back)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// MessageEvent is one chat message as seen by the core. Scope is the
// isolation boundary (guild); Location is the display channel.
type MessageEvent struct {
	ID         string
	Scope      string
	Location   string
	AuthorID   string
	AuthorName string
	IsBot      bool
	Text       string
	CreatedAt  time.Time
}
