package classify

import (
	"regexp"

	"whenbot/internal/types"
)

// tier orders rule groups. All single-time rules outrank all range rules;
// within a tier, self rules outrank mention rules. First match wins and a
// message never yields more than one intent.
type tier int

const (
	tierSingle tier = iota
	tierRange
)

type rule struct {
	re      *regexp.Regexp
	status  types.Status
	mention bool
	rng     bool
}

// Negative rules precede positive ones within each group so that "not
// available" and "can't" are never claimed by the available/can rules.
// Self rules require an explicit "i"/"i'm" subject or start of sentence,
// which keeps them from swallowing third-party statements.
func singleRules() []rule {
	return []rule{
		{re: regexp.MustCompile(`(?:\bi'?m\s+|^)(?:not\s+available|busy|unavailable)\s+(?:on\s+)?(.+)`), status: types.StatusUnavailable},
		{re: regexp.MustCompile(`(?:\bi\s+|^)can'?t\s+(?:do|make|play|attend)\s+(?:it\s+)?(?:on\s+)?(.+)`), status: types.StatusUnavailable},
		{re: regexp.MustCompile(`(?:\bi'?m\s+|^)(?:available|free)\s+(?:on\s+)?(.+)`), status: types.StatusAvailable},
		{re: regexp.MustCompile(`(?:\bi\s+|^)can\s+(?:do|make|play|attend)\s+(?:it\s+)?(?:on\s+)?(.+)`), status: types.StatusAvailable},

		{re: regexp.MustCompile(`(\w+)(?:'s| is)?\s+(?:not available|busy|unavailable|can't attend)\s+(?:on\s+)?(.+)`), status: types.StatusUnavailable, mention: true},
		{re: regexp.MustCompile(`(\w+)\s+can'?t\s+(?:do|make|play|attend)\s+(?:it\s+)?(?:on\s+)?(.+)`), status: types.StatusUnavailable, mention: true},
		{re: regexp.MustCompile(`(\w+)(?:'s| is)?\s+(?:available|free|can attend|can make it|can do it)\s+(?:on\s+)?(.+)`), status: types.StatusAvailable, mention: true},
		{re: regexp.MustCompile(`(\w+)\s+can\s+(?:do|make|play|attend)\s+(?:it\s+)?(?:on\s+)?(.+)`), status: types.StatusAvailable, mention: true},
	}
}

func rangeRules() []rule {
	return []rule{
		{re: regexp.MustCompile(`(?:\bi'?m\s+|^)(?:busy|unavailable)\s+(?:from|between)\s+(.+?)\s+(?:to|until|and)\s+(.+)`), status: types.StatusUnavailable, rng: true},
		{re: regexp.MustCompile(`(?:\bi'?m\s+|^)(?:available|free)\s+(?:from|between)\s+(.+?)\s+(?:to|until|and)\s+(.+)`), status: types.StatusAvailable, rng: true},
		{re: regexp.MustCompile(`(\w+)(?:'s| is)?\s+(?:busy|unavailable)\s+(?:from|between)\s+(.+?)\s+(?:to|until|and)\s+(.+)`), status: types.StatusUnavailable, mention: true, rng: true},
		{re: regexp.MustCompile(`(\w+)(?:'s| is)?\s+(?:available|free)\s+(?:from|between)\s+(.+?)\s+(?:to|until|and)\s+(.+)`), status: types.StatusAvailable, mention: true, rng: true},
	}
}

// skipWords rejects captures that are pronouns or chatter rather than a
// person's name. Single-letter captures are rejected separately.
var skipWords = map[string]bool{
	"i": true, "im": true, "he": true, "she": true, "it": true, "we": true,
	"they": true, "you": true, "me": true, "us": true, "them": true,
	"who": true, "what": true, "that": true, "this": true, "there": true,
	"everyone": true, "everybody": true, "someone": true, "somebody": true,
	"anyone": true, "anybody": true, "nobody": true, "noone": true,
	"and": true, "or": true, "but": true, "so": true, "if": true,
	"also": true, "still": true, "maybe": true, "sorry": true,
	"the": true, "a": true, "an": true, "not": true, "no": true, "yes": true,
}
