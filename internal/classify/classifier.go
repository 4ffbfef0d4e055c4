// Package classify turns free-text chat messages into availability intents.
//
// Matching is an explicit ordered policy, not an accident of rule order:
// the single-time tier is tried before the range tier, self rules before
// mention rules within a tier, and the first matching rule wins. A
// single-time rule declines a match whose captured tail opens with a range
// marker ("from ...", "between ...") so that range statements reach the
// range tier instead of being half-parsed as a single time.
package classify

import (
	"strings"

	"github.com/tsawler/prose/v3"

	"whenbot/internal/types"
)

// Intent is one classified availability statement. Name is empty for
// self-statements. Single-time intents carry When; range intents carry
// Start and End instead.
type Intent struct {
	Status types.Status
	Name   string
	Range  bool
	When   string
	Start  string
	End    string
}

// Classifier applies the ordered rule policy to message text.
type Classifier struct {
	single []rule
	ranged []rule
}

// New builds a classifier with the standard rule set.
func New() *Classifier {
	return &Classifier{
		single: singleRules(),
		ranged: rangeRules(),
	}
}

// Classify lower-cases text, splits it into sentences, and returns the
// first intent any sentence produces. The second return is false when the
// message is not an availability statement; that is not an error.
func (c *Classifier) Classify(text string) (Intent, bool) {
	text = strings.ToLower(text)
	for _, sentence := range sentences(text) {
		if intent, ok := c.classifySentence(sentence); ok {
			return intent, true
		}
	}
	return Intent{}, false
}

func (c *Classifier) classifySentence(s string) (Intent, bool) {
	for _, r := range c.single {
		m := r.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		name, tail := "", m[1]
		if r.mention {
			name, tail = m[1], m[2]
			if !plausibleName(name) {
				continue
			}
		}
		// Range phrasing falls through to the range tier.
		if opensRange(tail) {
			continue
		}
		return Intent{Status: r.status, Name: name, When: tail}, true
	}
	for _, r := range c.ranged {
		m := r.re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if r.mention {
			if !plausibleName(m[1]) {
				continue
			}
			return Intent{Status: r.status, Name: m[1], Range: true, Start: m[2], End: m[3]}, true
		}
		return Intent{Status: r.status, Range: true, Start: m[1], End: m[2]}, true
	}
	return Intent{}, false
}

// sentences splits text using the prose segmenter, falling back to the
// whole text if segmentation fails.
func sentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return []string{text}
	}
	segs := doc.Sentences()
	if len(segs) == 0 {
		return []string{text}
	}
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		out = append(out, s.Text)
	}
	return out
}

func plausibleName(name string) bool {
	return len(name) > 1 && !skipWords[name]
}

func opensRange(tail string) bool {
	return strings.HasPrefix(tail, "from ") || strings.HasPrefix(tail, "between ")
}
