package extract

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"whenbot/internal/availability"
	"whenbot/internal/classify"
	"whenbot/internal/timeparse"
	"whenbot/internal/types"
)

const (
	scope = "guild-1"
	loc   = "chan-1"
)

var posted = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

// fakeResolver maps exact phrases to canned anchors. Tests stay
// independent of the real parser's heuristics.
type fakeResolver struct {
	anchors map[string][]timeparse.Anchor
}

func (f *fakeResolver) Resolve(text string, _ time.Time) []timeparse.Anchor {
	return f.anchors[text]
}

func (f *fakeResolver) First(text string, ref time.Time) (timeparse.Anchor, bool) {
	anchors := f.Resolve(text, ref)
	if len(anchors) == 0 {
		return timeparse.Anchor{}, false
	}
	return anchors[0], true
}

type sinkCall struct {
	scope, name, date string
	status            types.Status
	hours             []int
}

type fakeSink struct {
	calls []sinkCall
}

func (f *fakeSink) Record(scope, name, date string, status types.Status, hours []int) {
	f.calls = append(f.calls, sinkCall{scope, name, date, status, hours})
}

func day(date string) timeparse.Anchor {
	d, _ := time.Parse(types.DateLayout, date)
	return timeparse.Anchor{Date: d}
}

func clock(date string, hour int) timeparse.Anchor {
	a := day(date)
	a.HourSpecified = true
	a.Hour = hour
	return a
}

func newTestExtractor(anchors map[string][]timeparse.Anchor) (*Extractor, *availability.Index, *fakeSink) {
	index := availability.NewIndex()
	sink := &fakeSink{}
	e := New(classify.New(), &fakeResolver{anchors: anchors}, index, sink)
	return e, index, sink
}

func message(id, author, text string) types.MessageEvent {
	return types.MessageEvent{
		ID:         id,
		Scope:      scope,
		Location:   loc,
		AuthorID:   author,
		AuthorName: author,
		Text:       text,
		CreatedAt:  posted,
	}
}

func TestSingleTimeStatement(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"tomorrow at 7pm": {clock("2024-01-11", 19)},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm available tomorrow at 7pm")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	avail, _ := index.QueryHour(scope, types.TimeSlot{Date: "2024-01-11", Hour: 19})
	if !reflect.DeepEqual(avail, []string{"alice"}) {
		t.Errorf("available = %v", avail)
	}
	// Exactly one slot, no band expansion.
	if avail, _ := index.QueryHour(scope, types.TimeSlot{Date: "2024-01-11", Hour: 20}); avail != nil {
		t.Errorf("unexpected slot at 20:00: %v", avail)
	}
	if index.EventCount() != 1 {
		t.Errorf("EventCount = %d", index.EventCount())
	}
}

func TestWholeDayExpandsToBand(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"friday": {day("2024-01-12")},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm busy friday")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	_, unavailHours := index.UserDay(scope, "alice", "2024-01-12")
	if len(unavailHours) != types.BandEnd-types.BandStart+1 {
		t.Fatalf("unavailable hours = %v", unavailHours)
	}
	if unavailHours[0] != types.BandStart || unavailHours[len(unavailHours)-1] != types.BandEnd {
		t.Errorf("band edges = %d..%d", unavailHours[0], unavailHours[len(unavailHours)-1])
	}
}

func TestRangeStatement(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"2pm":          {clock("2024-01-11", 14)},
		"6pm tomorrow": {clock("2024-01-11", 18)},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free from 2pm to 6pm tomorrow")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	availHours, _ := index.UserDay(scope, "alice", "2024-01-11")
	if !reflect.DeepEqual(availHours, []int{14, 15, 16, 17, 18}) {
		t.Errorf("available hours = %v", availHours)
	}
}

func TestRangeDefaultsToBandEdges(t *testing.T) {
	// End phrase resolves to a day with no clock time; the end hour
	// defaults to the band's end.
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"2pm":      {clock("2024-01-11", 14)},
		"tomorrow": {day("2024-01-11")},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free from 2pm until tomorrow")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	availHours, _ := index.UserDay(scope, "alice", "2024-01-11")
	want := make([]int, 0, types.BandEnd-14+1)
	for h := 14; h <= types.BandEnd; h++ {
		want = append(want, h)
	}
	if !reflect.DeepEqual(availHours, want) {
		t.Errorf("available hours = %v, want %v", availHours, want)
	}
}

func TestReversedRangeRecordsZeroSlots(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"6pm":          {clock("2024-01-11", 18)},
		"2pm tomorrow": {clock("2024-01-11", 14)},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free from 6pm to 2pm tomorrow")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	availHours, _ := index.UserDay(scope, "alice", "2024-01-11")
	if availHours != nil {
		t.Errorf("available hours = %v, want none", availHours)
	}
	// The event is still recorded so a later edit retracts uniformly.
	if index.EventCount() != 1 {
		t.Errorf("EventCount = %d, want 1", index.EventCount())
	}
}

func TestMentionGoesToLedgerNotIndex(t *testing.T) {
	e, index, sink := newTestExtractor(map[string][]timeparse.Anchor{
		"friday": {day("2024-01-12")},
	})

	if err := e.HandleCreate(message("m1", "dave", "Alex can't make it friday")); err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}

	// The author gains no slots from someone else's statement.
	if avail, unavail := index.QueryDay(scope, "2024-01-12"); avail != nil || unavail != nil {
		t.Errorf("index touched by mention: %v / %v", avail, unavail)
	}
	want := []sinkCall{{scope, "alex", "2024-01-12", types.StatusUnavailable, nil}}
	if !reflect.DeepEqual(sink.calls, want) {
		t.Errorf("sink calls = %v, want %v", sink.calls, want)
	}
	// Provenance exists even though the facts live in the ledger.
	ev, ok := index.Event(scope, "m1")
	if !ok || ev.MentionedName != "alex" || ev.ParticipantID != "" {
		t.Errorf("event = %+v, %v", ev, ok)
	}
}

func TestUpdateSupersedes(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"friday":   {day("2024-01-12")},
		"saturday": {day("2024-01-13")},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free friday")); err != nil {
		t.Fatalf("create: %v", err)
	}
	retracted, err := e.HandleUpdate(message("m1", "alice", "I'm busy saturday"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !retracted {
		t.Error("update did not report the retraction")
	}

	if availHours, _ := index.UserDay(scope, "alice", "2024-01-12"); availHours != nil {
		t.Errorf("friday facts survived edit: %v", availHours)
	}
	_, unavailHours := index.UserDay(scope, "alice", "2024-01-13")
	if len(unavailHours) == 0 {
		t.Error("saturday facts missing after edit")
	}
}

func TestUpdateToNonStatementRetracts(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"friday": {day("2024-01-12")},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free friday")); err != nil {
		t.Fatalf("create: %v", err)
	}
	retracted, err := e.HandleUpdate(message("m1", "alice", "never mind"))
	if !errors.Is(err, ErrNoPattern) {
		t.Fatalf("update err = %v, want ErrNoPattern", err)
	}
	// Callers need to know facts changed even though nothing replaced them.
	if !retracted {
		t.Error("update did not report the retraction")
	}

	if availHours, _ := index.UserDay(scope, "alice", "2024-01-12"); availHours != nil {
		t.Errorf("facts survived edit to chatter: %v", availHours)
	}
	if index.EventCount() != 0 {
		t.Errorf("EventCount = %d", index.EventCount())
	}
}

func TestUpdateOfUnknownMessage(t *testing.T) {
	e, _, _ := newTestExtractor(nil)

	retracted, err := e.HandleUpdate(message("m1", "alice", "never mind"))
	if !errors.Is(err, ErrNoPattern) {
		t.Fatalf("err = %v, want ErrNoPattern", err)
	}
	if retracted {
		t.Error("update of unrecorded message reported a retraction")
	}
}

func TestDelete(t *testing.T) {
	e, index, _ := newTestExtractor(map[string][]timeparse.Anchor{
		"friday": {day("2024-01-12")},
	})

	if err := e.HandleCreate(message("m1", "alice", "I'm free friday")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !e.HandleDelete(scope, "m1") {
		t.Fatal("HandleDelete = false")
	}
	if e.HandleDelete(scope, "m1") {
		t.Error("second HandleDelete = true")
	}
	if availHours, _ := index.UserDay(scope, "alice", "2024-01-12"); availHours != nil {
		t.Errorf("facts survived delete: %v", availHours)
	}
}

func TestNonStatements(t *testing.T) {
	e, _, _ := newTestExtractor(nil)

	if err := e.HandleCreate(message("m1", "alice", "what a great game yesterday")); !errors.Is(err, ErrNoPattern) {
		t.Errorf("chatter err = %v, want ErrNoPattern", err)
	}

	bot := message("m2", "whenbot", "I'm available tomorrow")
	bot.IsBot = true
	if err := e.HandleCreate(bot); !errors.Is(err, ErrNoPattern) {
		t.Errorf("bot message err = %v, want ErrNoPattern", err)
	}
}

func TestNoDatesResolved(t *testing.T) {
	e, index, _ := newTestExtractor(nil) // resolver knows nothing

	err := e.HandleCreate(message("m1", "alice", "I'm available tomorrow"))
	if !errors.Is(err, ErrNoDates) {
		t.Fatalf("err = %v, want ErrNoDates", err)
	}
	if index.EventCount() != 0 {
		t.Errorf("EventCount = %d, want 0", index.EventCount())
	}
}
