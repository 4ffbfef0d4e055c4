package availability

import (
	"time"

	"whenbot/internal/types"
)

// SourceEvent is the provenance record for the facts one source message
// produced. It carries the exact slots so retraction reverses them and no
// others. Exactly one event exists per (scope, message); re-recording the
// same message supersedes the old event.
//
// Mention events (MentionedName set) record provenance only; their facts
// live in the mention ledger, which has no retraction path.
type SourceEvent struct {
	Scope         string
	MessageID     string
	ParticipantID string
	MentionedName string
	Location      string
	Status        types.Status
	Slots         []types.TimeSlot
	Text          string
	CreatedAt     time.Time
}

// RecordEvent stores the event and applies its slots. Any prior event for
// the same message is retracted first, so an edited message never leaves
// stale slots behind.
func (x *Index) RecordEvent(ev *SourceEvent) {
	x.RetractEvent(ev.Scope, ev.MessageID)

	if ev.ParticipantID != "" {
		for _, slot := range ev.Slots {
			x.AddSlot(ev.Scope, slot, ev.ParticipantID, ev.Status)
		}
	}
	x.events[eventKey{scope: ev.Scope, message: ev.MessageID}] = ev
}

// RetractEvent reverses exactly the slots the matching event produced and
// deletes the event. Returns false when no event exists for the message.
func (x *Index) RetractEvent(scope, messageID string) bool {
	key := eventKey{scope: scope, message: messageID}
	ev, ok := x.events[key]
	if !ok {
		return false
	}
	if ev.ParticipantID != "" {
		for _, slot := range ev.Slots {
			x.RemoveSlot(scope, slot, ev.ParticipantID, ev.Status)
		}
	}
	delete(x.events, key)
	return true
}

// Event looks up the provenance record for a message.
func (x *Index) Event(scope, messageID string) (*SourceEvent, bool) {
	ev, ok := x.events[eventKey{scope: scope, message: messageID}]
	return ev, ok
}

// EventCount returns the number of stored provenance records.
func (x *Index) EventCount() int {
	return len(x.events)
}

// ClearLocation bulk-retracts every event whose source message was posted
// in the given location. Used before a full history re-scan.
func (x *Index) ClearLocation(scope, location string) int {
	var ids []string
	for key, ev := range x.events {
		if key.scope == scope && ev.Location == location {
			ids = append(ids, key.message)
		}
	}
	for _, id := range ids {
		x.RetractEvent(scope, id)
	}
	return len(ids)
}
