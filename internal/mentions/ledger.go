// Package mentions tracks availability attributed to named people who are
// not tracked participants ("alex can't make it friday" where alex is not
// in the server). Names are an identity space of their own, keyed per
// scope, and are never merged with participant IDs.
//
// The ledger is last-write-wins per (name, date) and has no retraction
// path: editing or deleting the source message does not undo a mention.
// A counter-statement overwrites the status, which is the only correction
// mechanism. Known gap, kept deliberately.
package mentions

import (
	"sort"

	"whenbot/internal/types"
)

type nameKey struct {
	scope string
	name  string
}

type entry struct {
	dates map[string]types.Status // day key -> status
	hours map[int]struct{}
}

// Ledger is the per-scope store of mentioned-name availability. Like the
// availability index, it relies on the router for serialization.
type Ledger struct {
	names map[nameKey]*entry
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{names: make(map[nameKey]*entry)}
}

// Record unions hours into the name's hour set and sets the status for the
// date, overwriting any earlier status. An empty hours slice defaults to
// the whole working-hour band.
func (l *Ledger) Record(scope, name, date string, status types.Status, hours []int) {
	key := nameKey{scope: scope, name: name}
	e, ok := l.names[key]
	if !ok {
		e = &entry{
			dates: make(map[string]types.Status),
			hours: make(map[int]struct{}),
		}
		l.names[key] = e
	}
	e.dates[date] = status
	if len(hours) == 0 {
		for h := types.BandStart; h <= types.BandEnd; h++ {
			e.hours[h] = struct{}{}
		}
		return
	}
	for _, h := range hours {
		e.hours[h] = struct{}{}
	}
}

// Status returns the name's status for a date, if one was recorded.
func (l *Ledger) Status(scope, name, date string) (types.Status, bool) {
	e, ok := l.names[nameKey{scope: scope, name: name}]
	if !ok {
		return "", false
	}
	s, ok := e.dates[date]
	return s, ok
}

// ForDay returns every mentioned name with a status on date, sorted.
func (l *Ledger) ForDay(scope, date string) []Mention {
	var out []Mention
	for key, e := range l.names {
		if key.scope != scope {
			continue
		}
		if s, ok := e.dates[date]; ok {
			out = append(out, Mention{Name: key.name, Status: s})
		}
	}
	sortMentions(out)
	return out
}

// ForHour is ForDay filtered to names whose hour set covers the hour.
func (l *Ledger) ForHour(scope, date string, hour int) []Mention {
	var out []Mention
	for key, e := range l.names {
		if key.scope != scope {
			continue
		}
		s, ok := e.dates[date]
		if !ok {
			continue
		}
		if _, ok := e.hours[hour]; ok {
			out = append(out, Mention{Name: key.name, Status: s})
		}
	}
	sortMentions(out)
	return out
}

// Mention is one name-status pair in a query result.
type Mention struct {
	Name   string
	Status types.Status
}

func sortMentions(ms []Mention) {
	sort.Slice(ms, func(i, j int) bool { return ms[i].Name < ms[j].Name })
}
