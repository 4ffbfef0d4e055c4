// Package view holds the calendar's read side: a pure view-model builder
// over the availability index and mention ledger, the per-location
// navigation state machine, and transient per-participant edit sessions.
package view

import (
	"time"

	"whenbot/internal/availability"
	"whenbot/internal/mentions"
	"whenbot/internal/types"
)

// Granularity is the display mode of a calendar view.
type Granularity string

const (
	GranularityWeek Granularity = "week"
	GranularityDay  Granularity = "day"
)

// Classification is the four-way display state of a day or hour. Today is
// carried separately because it only affects presentation, never counts.
type Classification string

const (
	ClassAvailable   Classification = "all-available"
	ClassUnavailable Classification = "all-unavailable"
	ClassMixed       Classification = "mixed"
	ClassNoData      Classification = "no-data"
)

// DayCell is one day of a week model.
type DayCell struct {
	Date        time.Time
	Today       bool
	Class       Classification
	Available   []string
	Unavailable []string
}

// WeekModel covers the seven days from the Monday of the anchor's week.
type WeekModel struct {
	Start time.Time
	Days  []DayCell
}

// HourCell is one hour of a day model.
type HourCell struct {
	Hour        int
	Class       Classification
	Available   []string
	Unavailable []string
}

// DayModel covers the working-hour band of a single day.
type DayModel struct {
	Date  time.Time
	Today bool
	Hours []HourCell
}

// Model is the display-ready aggregate handed to the renderer. Exactly one
// of Week or Day is set, matching Granularity. Now is the clock reading
// the model was built at; rendering derives all today-highlighting from it
// rather than reading the clock again.
type Model struct {
	Scope       string
	Location    string
	Granularity Granularity
	Anchor      time.Time
	Now         time.Time
	Week        *WeekModel
	Day         *DayModel
}

// NameResolver maps a participant ID to a display name.
type NameResolver func(participantID string) string

// Builder derives view models. It never mutates the index or ledger and is
// deterministic for fixed store contents, so repeated calls are safe.
type Builder struct {
	index   *availability.Index
	ledger  *mentions.Ledger
	resolve NameResolver

	// Now is the clock used for the Today flag. Overridable in tests.
	Now func() time.Time
}

// NewBuilder wires a builder. resolve may be nil, in which case raw
// participant IDs appear in the name lists.
func NewBuilder(index *availability.Index, ledger *mentions.Ledger, resolve NameResolver) *Builder {
	if resolve == nil {
		resolve = func(id string) string { return id }
	}
	return &Builder{
		index:   index,
		ledger:  ledger,
		resolve: resolve,
		Now:     time.Now,
	}
}

// Build derives the model for a scope, anchor and granularity.
func (b *Builder) Build(scope, location string, anchor time.Time, g Granularity) *Model {
	m := &Model{
		Scope:       scope,
		Location:    location,
		Granularity: g,
		Anchor:      anchor,
		Now:         b.Now(),
	}
	if g == GranularityDay {
		m.Day = b.DayView(scope, anchor)
	} else {
		m.Week = b.WeekView(scope, anchor)
	}
	return m
}

// WeekView builds the seven-day aggregate for the anchor's week.
func (b *Builder) WeekView(scope string, anchor time.Time) *WeekModel {
	start := types.WeekStart(anchor)
	now := b.Now()
	model := &WeekModel{Start: start}

	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		date := types.DateKey(day)

		avail, unavail := b.index.QueryDay(scope, date)
		availNames := b.resolveAll(avail)
		unavailNames := b.resolveAll(unavail)
		for _, m := range b.ledger.ForDay(scope, date) {
			if m.Status == types.StatusAvailable {
				availNames = append(availNames, m.Name)
			} else {
				unavailNames = append(unavailNames, m.Name)
			}
		}

		model.Days = append(model.Days, DayCell{
			Date:        day,
			Today:       types.SameDay(day, now),
			Class:       classifyCounts(len(availNames), len(unavailNames)),
			Available:   availNames,
			Unavailable: unavailNames,
		})
	}
	return model
}

// DayView builds the per-hour aggregate for one day, band hours only.
func (b *Builder) DayView(scope string, anchor time.Time) *DayModel {
	date := types.DateKey(anchor)
	model := &DayModel{
		Date:  types.StartOfDay(anchor),
		Today: types.SameDay(anchor, b.Now()),
	}

	for hour := types.BandStart; hour <= types.BandEnd; hour++ {
		avail, unavail := b.index.QueryHour(scope, types.TimeSlot{Date: date, Hour: hour})
		availNames := b.resolveAll(avail)
		unavailNames := b.resolveAll(unavail)
		for _, m := range b.ledger.ForHour(scope, date, hour) {
			if m.Status == types.StatusAvailable {
				availNames = append(availNames, m.Name)
			} else {
				unavailNames = append(unavailNames, m.Name)
			}
		}

		model.Hours = append(model.Hours, HourCell{
			Hour:        hour,
			Class:       classifyCounts(len(availNames), len(unavailNames)),
			Available:   availNames,
			Unavailable: unavailNames,
		})
	}
	return model
}

func (b *Builder) resolveAll(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = b.resolve(id)
	}
	return names
}

func classifyCounts(available, unavailable int) Classification {
	switch {
	case available > 0 && unavailable == 0:
		return ClassAvailable
	case available > 0 && unavailable > 0:
		return ClassMixed
	case unavailable > 0:
		return ClassUnavailable
	default:
		return ClassNoData
	}
}
