package classify

import (
	"testing"

	"whenbot/internal/types"
)

func TestClassifySelfStatements(t *testing.T) {
	c := New()
	tests := []struct {
		input  string
		status types.Status
		when   string
	}{
		{"I'm available tomorrow", types.StatusAvailable, "tomorrow"},
		{"I'm free saturday", types.StatusAvailable, "saturday"},
		{"I'm not available friday", types.StatusUnavailable, "friday"},
		{"I'm busy on monday", types.StatusUnavailable, "monday"},
		{"busy monday", types.StatusUnavailable, "monday"},
		{"can't make it friday", types.StatusUnavailable, "friday"},
		{"i can do saturday", types.StatusAvailable, "saturday"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := c.Classify(tt.input)
			if !ok {
				t.Fatalf("Classify(%q) matched nothing", tt.input)
			}
			if intent.Status != tt.status {
				t.Errorf("status = %v, want %v", intent.Status, tt.status)
			}
			if intent.Name != "" {
				t.Errorf("name = %q, want self-statement", intent.Name)
			}
			if intent.Range {
				t.Error("classified as range")
			}
			if intent.When != tt.when {
				t.Errorf("when = %q, want %q", intent.When, tt.when)
			}
		})
	}
}

func TestClassifyMentionStatements(t *testing.T) {
	c := New()
	tests := []struct {
		input  string
		status types.Status
		name   string
		when   string
	}{
		{"Alex can't make it friday", types.StatusUnavailable, "alex", "friday"},
		{"sarah is busy monday", types.StatusUnavailable, "sarah", "monday"},
		{"bob is available tomorrow", types.StatusAvailable, "bob", "tomorrow"},
		{"dana can make it saturday", types.StatusAvailable, "dana", "saturday"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := c.Classify(tt.input)
			if !ok {
				t.Fatalf("Classify(%q) matched nothing", tt.input)
			}
			if intent.Name != tt.name {
				t.Errorf("name = %q, want %q", intent.Name, tt.name)
			}
			if intent.Status != tt.status {
				t.Errorf("status = %v, want %v", intent.Status, tt.status)
			}
			if intent.When != tt.when {
				t.Errorf("when = %q, want %q", intent.When, tt.when)
			}
		})
	}
}

func TestClassifyRangeStatements(t *testing.T) {
	c := New()
	tests := []struct {
		input  string
		status types.Status
		name   string
		start  string
		end    string
	}{
		{"I'm free from 2pm to 6pm tomorrow", types.StatusAvailable, "", "2pm", "6pm tomorrow"},
		{"I'm busy from 9am until noon friday", types.StatusUnavailable, "", "9am", "noon friday"},
		{"I'm available between 10am and 3pm saturday", types.StatusAvailable, "", "10am", "3pm saturday"},
		{"bob is available from 9am to noon tomorrow", types.StatusAvailable, "bob", "9am", "noon tomorrow"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, ok := c.Classify(tt.input)
			if !ok {
				t.Fatalf("Classify(%q) matched nothing", tt.input)
			}
			if !intent.Range {
				t.Fatalf("not classified as range: %+v", intent)
			}
			if intent.Status != tt.status || intent.Name != tt.name {
				t.Errorf("status/name = %v/%q", intent.Status, intent.Name)
			}
			if intent.Start != tt.start || intent.End != tt.end {
				t.Errorf("range = %q..%q, want %q..%q", intent.Start, intent.End, tt.start, tt.end)
			}
		})
	}
}

func TestClassifyRejectsChatter(t *testing.T) {
	c := New()
	for _, input := range []string{
		"hello how are you",
		"what time is the game?",
		"the weather is nice",
		"see you all later",
	} {
		if intent, ok := c.Classify(input); ok {
			t.Errorf("Classify(%q) = %+v, want no match", input, intent)
		}
	}
}

func TestClassifyRejectsPronounNames(t *testing.T) {
	c := New()
	for _, input := range []string{
		"someone is available tomorrow",
		"everyone can make it tonight",
		"nobody is free friday",
	} {
		if intent, ok := c.Classify(input); ok {
			t.Errorf("Classify(%q) = %+v, want no match", input, intent)
		}
	}
}

func TestClassifyMultiSentence(t *testing.T) {
	c := New()
	intent, ok := c.Classify("hey everyone! i'm free tomorrow")
	if !ok {
		t.Fatal("matched nothing in multi-sentence message")
	}
	if intent.Status != types.StatusAvailable || intent.When != "tomorrow" {
		t.Errorf("intent = %+v", intent)
	}
}

func TestFirstMatchWins(t *testing.T) {
	// Two statements in one message; the first sentence's intent is taken.
	c := New()
	intent, ok := c.Classify("I'm busy friday. I'm free saturday.")
	if !ok {
		t.Fatal("matched nothing")
	}
	if intent.Status != types.StatusUnavailable {
		t.Errorf("status = %v, want the first statement's", intent.Status)
	}
}

func TestPlausibleName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"alex", true},
		{"m", false},
		{"i", false},
		{"someone", false},
		{"maybe", false},
	}
	for _, tt := range tests {
		if got := plausibleName(tt.name); got != tt.want {
			t.Errorf("plausibleName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOpensRange(t *testing.T) {
	if !opensRange("from 2pm to 6pm") {
		t.Error("'from' tail not treated as range phrasing")
	}
	if !opensRange("between 10am and noon") {
		t.Error("'between' tail not treated as range phrasing")
	}
	if opensRange("tomorrow from the office") {
		t.Error("mid-tail 'from' treated as range phrasing")
	}
}
