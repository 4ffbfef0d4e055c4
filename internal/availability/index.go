// Package availability is the authoritative in-memory store of time-slot
// facts. Storage is flat tables keyed by composite keys rather than nested
// maps: one table per status keyed by (scope, slot), a provenance table
// keyed by (scope, message), and a per-participant-per-day hour projection.
// Empty leaves are pruned on removal so the index never retains them.
package availability

import (
	"sort"

	"whenbot/internal/types"
)

type slotKey struct {
	scope string
	slot  string // canonical slot key
}

type eventKey struct {
	scope   string
	message string
}

type dayKey struct {
	scope       string
	participant string
	date        string // canonical day key
}

// DayHours is the materialized per-participant-per-day projection: two
// disjoint hour sets.
type DayHours struct {
	Available   map[int]struct{}
	Unavailable map[int]struct{}
}

func newDayHours() *DayHours {
	return &DayHours{
		Available:   make(map[int]struct{}),
		Unavailable: make(map[int]struct{}),
	}
}

func (d *DayHours) empty() bool {
	return len(d.Available) == 0 && len(d.Unavailable) == 0
}

// Index owns all availability facts. It is not safe for concurrent use;
// the event router serializes access.
type Index struct {
	available   map[slotKey]map[string]struct{}
	unavailable map[slotKey]map[string]struct{}
	events      map[eventKey]*SourceEvent
	days        map[dayKey]*DayHours
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		available:   make(map[slotKey]map[string]struct{}),
		unavailable: make(map[slotKey]map[string]struct{}),
		events:      make(map[eventKey]*SourceEvent),
		days:        make(map[dayKey]*DayHours),
	}
}

func (x *Index) table(status types.Status) map[slotKey]map[string]struct{} {
	if status == types.StatusAvailable {
		return x.available
	}
	return x.unavailable
}

// AddSlot records participant as status for the slot. Idempotent. The
// opposite status for the same participant and slot is cleared first, and
// the day projection is updated in the same step.
func (x *Index) AddSlot(scope string, slot types.TimeSlot, participant string, status types.Status) {
	x.dropSlot(scope, slot, participant, status.Opposite())

	key := slotKey{scope: scope, slot: slot.Key()}
	table := x.table(status)
	set, ok := table[key]
	if !ok {
		set = make(map[string]struct{})
		table[key] = set
	}
	set[participant] = struct{}{}

	dk := dayKey{scope: scope, participant: participant, date: slot.Date}
	day, ok := x.days[dk]
	if !ok {
		day = newDayHours()
		x.days[dk] = day
	}
	if status == types.StatusAvailable {
		day.Available[slot.Hour] = struct{}{}
		delete(day.Unavailable, slot.Hour)
	} else {
		day.Unavailable[slot.Hour] = struct{}{}
		delete(day.Available, slot.Hour)
	}
}

// RemoveSlot removes participant from the slot's status set, pruning the
// slot entry and day projection when they become empty.
func (x *Index) RemoveSlot(scope string, slot types.TimeSlot, participant string, status types.Status) {
	x.dropSlot(scope, slot, participant, status)
}

func (x *Index) dropSlot(scope string, slot types.TimeSlot, participant string, status types.Status) {
	key := slotKey{scope: scope, slot: slot.Key()}
	table := x.table(status)
	if set, ok := table[key]; ok {
		delete(set, participant)
		if len(set) == 0 {
			delete(table, key)
		}
	}

	dk := dayKey{scope: scope, participant: participant, date: slot.Date}
	if day, ok := x.days[dk]; ok {
		if status == types.StatusAvailable {
			delete(day.Available, slot.Hour)
		} else {
			delete(day.Unavailable, slot.Hour)
		}
		if day.empty() {
			delete(x.days, dk)
		}
	}
}

// QueryHour returns the participants recorded for the exact slot, sorted.
func (x *Index) QueryHour(scope string, slot types.TimeSlot) (available, unavailable []string) {
	key := slotKey{scope: scope, slot: slot.Key()}
	return sorted(x.available[key]), sorted(x.unavailable[key])
}

// QueryDay aggregates across all hours of date. A participant present with
// both statuses in different hours appears in both sets.
func (x *Index) QueryDay(scope, date string) (available, unavailable []string) {
	availSet := make(map[string]struct{})
	unavailSet := make(map[string]struct{})
	for hour := 0; hour <= 23; hour++ {
		key := slotKey{scope: scope, slot: types.TimeSlot{Date: date, Hour: hour}.Key()}
		for p := range x.available[key] {
			availSet[p] = struct{}{}
		}
		for p := range x.unavailable[key] {
			unavailSet[p] = struct{}{}
		}
	}
	return sorted(availSet), sorted(unavailSet)
}

// UserDay returns a copy of the participant's projection for date.
func (x *Index) UserDay(scope, participant, date string) (available, unavailable []int) {
	day, ok := x.days[dayKey{scope: scope, participant: participant, date: date}]
	if !ok {
		return nil, nil
	}
	return sortedHours(day.Available), sortedHours(day.Unavailable)
}

// SetUserAvailability overwrites the participant's whole day: every hour
// 0-23 is set according to membership in the two input sets, and hours in
// neither are cleared. This is the direct-edit path; it is authoritative
// and carries no provenance.
func (x *Index) SetUserAvailability(scope, participant, date string, availableHours, unavailableHours []int) {
	avail := hourSet(availableHours)
	unavail := hourSet(unavailableHours)
	for hour := 0; hour <= 23; hour++ {
		slot := types.TimeSlot{Date: date, Hour: hour}
		switch {
		case contains(avail, hour):
			x.AddSlot(scope, slot, participant, types.StatusAvailable)
		case contains(unavail, hour):
			x.AddSlot(scope, slot, participant, types.StatusUnavailable)
		default:
			x.dropSlot(scope, slot, participant, types.StatusAvailable)
			x.dropSlot(scope, slot, participant, types.StatusUnavailable)
		}
	}
}

func sorted(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func sortedHours(set map[int]struct{}) []int {
	if len(set) == 0 {
		return nil
	}
	out := make([]int, 0, len(set))
	for h := range set {
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

func hourSet(hours []int) map[int]struct{} {
	set := make(map[int]struct{}, len(hours))
	for _, h := range hours {
		set[h] = struct{}{}
	}
	return set
}

func contains(set map[int]struct{}, hour int) bool {
	_, ok := set[hour]
	return ok
}
