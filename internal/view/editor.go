package view

import (
	"errors"
	"time"

	"whenbot/internal/types"
)

// ErrNoSession is returned when an edit operation arrives for a
// participant with no session in progress.
var ErrNoSession = errors.New("no edit session in progress")

// ValidationError reports an edit session that cannot be saved as-is. The
// session survives the failure so the participant can correct and retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// EditSession is one participant's in-progress availability edit. It is
// transient: destroyed on save, cancel, or replacement. It supports two
// styles of editing, a contiguous range with one status or per-hour
// toggles, and is seeded from the participant's current projection so
// toggles start from what the calendar already shows.
type EditSession struct {
	Scope       string
	Participant string
	Date        string

	// Range edit. Hours are -1 and status empty until chosen.
	Start  int
	End    int
	Status types.Status

	// Toggle edit.
	pendingAvailable   map[int]struct{}
	pendingUnavailable map[int]struct{}
	toggled            bool
}

func (s *EditSession) rangeTouched() bool {
	return s.Start >= 0 || s.End >= 0 || s.Status != ""
}

// StartEdit begins an edit session for the participant on the given date,
// replacing any prior uncommitted session. The session is seeded from the
// current per-day projection.
func (m *Manager) StartEdit(scope, participant string, date time.Time) *EditSession {
	dateKey := types.DateKey(date)
	session := &EditSession{
		Scope:              scope,
		Participant:        participant,
		Date:               dateKey,
		Start:              -1,
		End:                -1,
		pendingAvailable:   make(map[int]struct{}),
		pendingUnavailable: make(map[int]struct{}),
	}
	avail, unavail := m.builder.index.UserDay(scope, participant, dateKey)
	for _, h := range avail {
		session.pendingAvailable[h] = struct{}{}
	}
	for _, h := range unavail {
		session.pendingUnavailable[h] = struct{}{}
	}
	m.sessions[participant] = session
	return session
}

// Session returns the participant's in-progress edit, if any.
func (m *Manager) Session(participant string) (*EditSession, bool) {
	s, ok := m.sessions[participant]
	return s, ok
}

// SetRangeStart records the range start hour. No validation until save.
func (m *Manager) SetRangeStart(participant string, hour int) error {
	s, ok := m.sessions[participant]
	if !ok {
		return ErrNoSession
	}
	s.Start = hour
	return nil
}

// SetRangeEnd records the range end hour.
func (m *Manager) SetRangeEnd(participant string, hour int) error {
	s, ok := m.sessions[participant]
	if !ok {
		return ErrNoSession
	}
	s.End = hour
	return nil
}

// SetStatus records the status the range applies.
func (m *Manager) SetStatus(participant string, status types.Status) error {
	s, ok := m.sessions[participant]
	if !ok {
		return ErrNoSession
	}
	s.Status = status
	return nil
}

// ToggleHour flips one hour to the given status, or clears it when it
// already has that status. Hours outside 0-23 are ignored.
func (m *Manager) ToggleHour(participant string, hour int, status types.Status) error {
	s, ok := m.sessions[participant]
	if !ok {
		return ErrNoSession
	}
	if hour < 0 || hour > 23 {
		return nil
	}
	target, other := s.pendingAvailable, s.pendingUnavailable
	if status == types.StatusUnavailable {
		target, other = other, target
	}
	if _, set := target[hour]; set {
		delete(target, hour)
	} else {
		target[hour] = struct{}{}
		delete(other, hour)
	}
	s.toggled = true
	return nil
}

// SaveEdit validates and applies the participant's session. A range edit
// needs both bounds and a status, with end at or after start; a toggle
// edit needs at least one change. On success the whole day is overwritten
// through the index's direct-edit path, the session is destroyed, and
// every open view of the scope refreshes. On validation failure the
// session is left intact.
func (m *Manager) SaveEdit(participant string) (*EditSession, error) {
	s, ok := m.sessions[participant]
	if !ok {
		return nil, ErrNoSession
	}

	var availableHours, unavailableHours []int
	switch {
	case s.rangeTouched():
		if s.Start < 0 || s.End < 0 || s.Status == "" {
			return s, &ValidationError{Reason: "select a start time, an end time, and a status"}
		}
		if s.End < s.Start {
			return s, &ValidationError{Reason: "end time must not be before start time"}
		}
		for hour := s.Start; hour <= s.End; hour++ {
			if s.Status == types.StatusAvailable {
				availableHours = append(availableHours, hour)
			} else {
				unavailableHours = append(unavailableHours, hour)
			}
		}
	case s.toggled:
		for hour := range s.pendingAvailable {
			availableHours = append(availableHours, hour)
		}
		for hour := range s.pendingUnavailable {
			unavailableHours = append(unavailableHours, hour)
		}
	default:
		return s, &ValidationError{Reason: "nothing to save yet"}
	}

	m.builder.index.SetUserAvailability(s.Scope, participant, s.Date, availableHours, unavailableHours)
	delete(m.sessions, participant)
	m.Refresh(s.Scope)
	return s, nil
}

// CancelEdit destroys the session without applying it.
func (m *Manager) CancelEdit(participant string) {
	delete(m.sessions, participant)
}
