package timeparse

import (
	"testing"
	"time"

	"whenbot/internal/types"
)

// Wednesday noon.
var ref = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func TestResolveBareDay(t *testing.T) {
	r := New()
	anchors := r.Resolve("tomorrow", ref)
	if len(anchors) == 0 {
		t.Fatal("no anchors for 'tomorrow'")
	}
	a := anchors[0]
	if !types.SameDay(a.Date, ref.AddDate(0, 0, 1)) {
		t.Errorf("date = %v, want day after ref", a.Date)
	}
	if a.HourSpecified {
		t.Error("bare day reported an hour")
	}
}

func TestResolveDayWithClockTime(t *testing.T) {
	r := New()
	anchors := r.Resolve("tomorrow at 5pm", ref)
	if len(anchors) == 0 {
		t.Fatal("no anchors for 'tomorrow at 5pm'")
	}
	a := anchors[0]
	if !a.HourSpecified {
		t.Fatal("clock time not detected")
	}
	if a.Hour != 17 {
		t.Errorf("hour = %d, want 17", a.Hour)
	}
	if !types.SameDay(a.Date, ref.AddDate(0, 0, 1)) {
		t.Errorf("date = %v, want day after ref", a.Date)
	}
}

func TestResolveWeekdayName(t *testing.T) {
	r := New()
	anchors := r.Resolve("friday", ref)
	if len(anchors) == 0 {
		t.Fatal("no anchors for 'friday'")
	}
	if anchors[0].Date.Weekday() != time.Friday {
		t.Errorf("weekday = %v, want Friday", anchors[0].Date.Weekday())
	}
	if anchors[0].HourSpecified {
		t.Error("bare weekday reported an hour")
	}
}

func TestResolveNothing(t *testing.T) {
	r := New()
	if anchors := New().Resolve("hello world", ref); len(anchors) != 0 {
		t.Errorf("anchors = %v for non-temporal text", anchors)
	}
	if anchors := r.Resolve("", ref); len(anchors) != 0 {
		t.Errorf("anchors = %v for empty text", anchors)
	}
}

func TestFirst(t *testing.T) {
	r := New()
	if _, ok := r.First("hello world", ref); ok {
		t.Error("First reported an anchor in non-temporal text")
	}
	a, ok := r.First("tomorrow", ref)
	if !ok {
		t.Fatal("First found nothing in 'tomorrow'")
	}
	if !types.SameDay(a.Date, ref.AddDate(0, 0, 1)) {
		t.Errorf("date = %v", a.Date)
	}
}

func TestClockPattern(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"tomorrow at 5pm", true},
		{"7:30", true},
		{"at 19", true},
		{"noon", true},
		{"midnight", true},
		{"tomorrow", false},
		{"friday", false},
		{"next week", false},
	}
	for _, tt := range tests {
		if got := clockPattern.MatchString(tt.text); got != tt.want {
			t.Errorf("clockPattern(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
