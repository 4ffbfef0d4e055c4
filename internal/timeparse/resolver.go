package timeparse

import (
	"regexp"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Anchor is one concrete date/time reference found in free text.
// HourSpecified distinguishes "tomorrow at 7pm" from a bare "tomorrow";
// Hour is only meaningful when it is set.
type Anchor struct {
	Date          time.Time
	HourSpecified bool
	Hour          int
}

// Resolver wraps the natural-language date parser. It is stateless and safe
// to share across callers.
type Resolver struct {
	parser *when.Parser
}

// maxAnchors bounds how many matches a single text can produce.
const maxAnchors = 8

// New builds a resolver with the English and common rule sets.
func New() *Resolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Resolver{parser: w}
}

// clockPattern decides whether a matched snippet named an hour of day.
// The underlying parser does not report which components it filled in, so
// this inspects the surface text, the way the fast extractor spots times.
var clockPattern = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d{1,2}\s*(?:a\.?m\.?|p\.?m\.?)\b|\bat\s+\d{1,2}\b|\bnoon\b|\bmidnight\b`)

// Resolve returns the date anchors found in text, in source order, resolved
// relative to ref. Unparseable text yields an empty slice, never an error.
// Ambiguous relative terms ("friday") resolve with the parser's own
// heuristics; the result is not second-guessed here.
func (r *Resolver) Resolve(text string, ref time.Time) []Anchor {
	var anchors []Anchor
	rest := text
	for len(anchors) < maxAnchors {
		result, err := r.parser.Parse(rest, ref)
		if err != nil || result == nil {
			break
		}
		anchors = append(anchors, Anchor{
			Date:          result.Time,
			HourSpecified: clockPattern.MatchString(result.Text),
			Hour:          result.Time.Hour(),
		})
		next := result.Index + len(result.Text)
		if next >= len(rest) {
			break
		}
		rest = rest[next:]
	}
	return anchors
}

// First returns the first anchor in text, if any.
func (r *Resolver) First(text string, ref time.Time) (Anchor, bool) {
	anchors := r.Resolve(text, ref)
	if len(anchors) == 0 {
		return Anchor{}, false
	}
	return anchors[0], true
}
