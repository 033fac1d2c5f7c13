package analysis

import "testing"

func TestDetectCrisis(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"direct phrase", "I want to kill myself", true},
		{"case insensitive", "I WANT TO END MY LIFE", true},
		{"phrase inside sentence", "sometimes I think I'd be better off dead, honestly", true},
		{"overdose mention", "I took an overdose last night", true},
		{"hurt myself", "I keep wanting to hurt myself", true},
		{"benign text", "I had a great day", false},
		{"negative but not crisis", "I'm feeling really sad and tired today", false},
		{"empty input", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectCrisis(tc.text); got != tc.expected {
				t.Errorf("DetectCrisis(%q) = %v, want %v", tc.text, got, tc.expected)
			}
		})
	}
}

func TestCrisisTriggers(t *testing.T) {
	triggers := CrisisTriggers("I want to end my life, I feel like I'm better off dead")
	if len(triggers) != 2 {
		t.Fatalf("expected 2 triggers, got %d: %v", len(triggers), triggers)
	}

	if triggers := CrisisTriggers("just a normal message"); len(triggers) != 0 {
		t.Fatalf("expected no triggers, got %v", triggers)
	}
}

func TestScoreKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{"positive", "today was a great day, I feel happy", SentimentPositive, true},
		{"negative", "everything feels terrible and I am sad", SentimentNegative, true},
		{"neutral", "I went to the store", SentimentNeutral, true},
		{"mixed ties to neutral", "a good day but a bad evening", SentimentNeutral, true},
		{"empty", "   ", SentimentUnknown, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := ScoreKeywords(tc.text)
			if ok != tc.ok {
				t.Fatalf("ScoreKeywords(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			}
			if s.Label != tc.expected {
				t.Errorf("ScoreKeywords(%q) label = %q, want %q", tc.text, s.Label, tc.expected)
			}
		})
	}
}
