package analysis

import "strings"

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
	SentimentUnknown  = "unknown"
)

// Sentiment is a polarity classification of one piece of text.
type Sentiment struct {
	Label string
	Score float64
}

var positiveWords = []string{
	"happy", "good", "great", "love", "excellent", "wonderful", "amazing",
	"glad", "excited", "grateful", "proud", "hopeful",
}

var negativeWords = []string{
	"sad", "bad", "hate", "terrible", "awful", "horrible", "angry",
	"depressed", "lonely", "miserable", "worried", "hopeless", "scared",
}

// ScoreKeywords classifies text by counting polarity keywords. It is the
// offline fallback when the classifier sidecar is unreachable. The second
// return value is false only for empty input.
func ScoreKeywords(text string) (Sentiment, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Sentiment{Label: SentimentUnknown}, false
	}

	posCount := 0
	for _, w := range positiveWords {
		if strings.Contains(normalized, w) {
			posCount++
		}
	}
	negCount := 0
	for _, w := range negativeWords {
		if strings.Contains(normalized, w) {
			negCount++
		}
	}

	switch {
	case posCount > negCount:
		return Sentiment{Label: SentimentPositive, Score: 0.6}, true
	case negCount > posCount:
		return Sentiment{Label: SentimentNegative, Score: 0.6}, true
	default:
		return Sentiment{Label: SentimentNeutral, Score: 0.5}, true
	}
}
