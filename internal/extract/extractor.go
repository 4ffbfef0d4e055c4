// Package extract is the fact writer: it classifies message text, resolves
// the temporal expressions, expands them to hour slots, and records the
// result in the availability index or the mention ledger with full
// provenance for retraction.
package extract

import (
	"errors"
	"time"

	"whenbot/internal/availability"
	"whenbot/internal/classify"
	"whenbot/internal/timeparse"
	"whenbot/internal/types"
)

var (
	// ErrNoPattern means the text matched no rule. Silently ignorable.
	ErrNoPattern = errors.New("no availability pattern matched")
	// ErrNoDates means a rule matched but no date could be resolved.
	ErrNoDates = errors.New("no dates resolved from matched text")
)

// Resolver resolves free text to date anchors relative to a reference time.
type Resolver interface {
	Resolve(text string, ref time.Time) []timeparse.Anchor
	First(text string, ref time.Time) (timeparse.Anchor, bool)
}

// MentionSink receives availability for non-participant names. The ledger
// owner is passed in at construction; the extractor never reaches for it
// through shared state.
type MentionSink interface {
	Record(scope, name, date string, status types.Status, hours []int)
}

// Extractor turns message events into recorded facts.
type Extractor struct {
	classifier *classify.Classifier
	resolver   Resolver
	index      *availability.Index
	mentions   MentionSink
}

// New wires an extractor. All collaborators are required.
func New(classifier *classify.Classifier, resolver Resolver, index *availability.Index, mentions MentionSink) *Extractor {
	return &Extractor{
		classifier: classifier,
		resolver:   resolver,
		index:      index,
		mentions:   mentions,
	}
}

// HandleCreate processes a new message. It returns ErrNoPattern when the
// message is not an availability statement and ErrNoDates when a matched
// statement resolved to no dates; both leave the index untouched.
func (e *Extractor) HandleCreate(ev types.MessageEvent) error {
	if ev.IsBot || ev.Scope == "" {
		return ErrNoPattern
	}
	intent, ok := e.classifier.Classify(ev.Text)
	if !ok {
		return ErrNoPattern
	}
	if intent.Range {
		return e.applyRange(ev, intent)
	}
	return e.applySingle(ev, intent)
}

// HandleUpdate supersedes the facts of an edited message: the old event is
// retracted and the new text extracted from scratch. The first return
// reports whether a prior event was retracted, so callers know facts
// changed even when the new text extracts nothing.
func (e *Extractor) HandleUpdate(ev types.MessageEvent) (bool, error) {
	retracted := e.index.RetractEvent(ev.Scope, ev.ID)
	return retracted, e.HandleCreate(ev)
}

// HandleDelete retracts the facts a deleted message produced, if any.
func (e *Extractor) HandleDelete(scope, messageID string) bool {
	return e.index.RetractEvent(scope, messageID)
}

// applySingle handles single-time and whole-day statements. Every anchor
// the resolver finds contributes slots; all of them share one source event.
func (e *Extractor) applySingle(ev types.MessageEvent, intent classify.Intent) error {
	anchors := e.resolver.Resolve(intent.When, ev.CreatedAt)
	if len(anchors) == 0 {
		return ErrNoDates
	}

	var slots []types.TimeSlot
	for _, anchor := range anchors {
		date := types.DateKey(anchor.Date)
		if anchor.HourSpecified {
			slot := types.TimeSlot{Date: date, Hour: anchor.Hour}
			slots = append(slots, slot)
			if intent.Name != "" {
				e.mentions.Record(ev.Scope, intent.Name, date, intent.Status, []int{anchor.Hour})
			}
		} else {
			// Whole day: expand to the working-hour band.
			for hour := types.BandStart; hour <= types.BandEnd; hour++ {
				slots = append(slots, types.TimeSlot{Date: date, Hour: hour})
			}
			if intent.Name != "" {
				e.mentions.Record(ev.Scope, intent.Name, date, intent.Status, nil)
			}
		}
	}

	e.record(ev, intent, slots)
	return nil
}

// applyRange handles "from X to Y" statements. Missing hours default to
// the band edges. A reversed range (end before start) expands to zero
// slots; the event is still recorded so retraction stays uniform.
func (e *Extractor) applyRange(ev types.MessageEvent, intent classify.Intent) error {
	start, ok := e.resolver.First(intent.Start, ev.CreatedAt)
	if !ok {
		return ErrNoDates
	}
	end, ok := e.resolver.First(intent.End, ev.CreatedAt)
	if !ok {
		return ErrNoDates
	}

	startHour := types.BandStart
	if start.HourSpecified {
		startHour = start.Hour
	}
	endHour := types.BandEnd
	if end.HourSpecified {
		endHour = end.Hour
	}

	// The range is assumed to lie within the start anchor's day.
	date := types.DateKey(start.Date)
	var slots []types.TimeSlot
	var hours []int
	for hour := startHour; hour <= endHour; hour++ {
		slots = append(slots, types.TimeSlot{Date: date, Hour: hour})
		hours = append(hours, hour)
	}

	if intent.Name != "" && len(hours) > 0 {
		e.mentions.Record(ev.Scope, intent.Name, date, intent.Status, hours)
	}
	e.record(ev, intent, slots)
	return nil
}

func (e *Extractor) record(ev types.MessageEvent, intent classify.Intent, slots []types.TimeSlot) {
	event := &availability.SourceEvent{
		Scope:         ev.Scope,
		MessageID:     ev.ID,
		Location:      ev.Location,
		Status:        intent.Status,
		Slots:         slots,
		Text:          ev.Text,
		CreatedAt:     ev.CreatedAt,
		MentionedName: intent.Name,
	}
	if intent.Name == "" {
		event.ParticipantID = ev.AuthorID
	}
	e.index.RecordEvent(event)
}
