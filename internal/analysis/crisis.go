package analysis

import "strings"

// crisisPhrases is the fixed list of substrings that flag a turn for
// escalation. Matching is case-insensitive and deliberately simple: a
// missed phrasing falls through to the model-side safety layers, but a
// match here must never depend on network or model availability.
var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"kill me",
	"want to die",
	"end my life",
	"end it all",
	"hurt myself",
	"self harm",
	"cutting myself",
	"overdose",
	"not worth living",
	"better off dead",
	"no reason to live",
}

// DetectCrisis reports whether text contains any crisis phrase.
// Pure and deterministic; no failure mode.
func DetectCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// CrisisTriggers returns every matched phrase, for the analysis endpoint.
func CrisisTriggers(text string) []string {
	lower := strings.ToLower(text)
	triggers := make([]string, 0, 2)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			triggers = append(triggers, phrase)
		}
	}
	return triggers
}
