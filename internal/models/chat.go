package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Emotion is the last facial-expression classification reported by the
// capture pipeline in the browser. The orchestrator only reads it.
type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionAnxious   Emotion = "anxious"
	EmotionSurprised Emotion = "surprised"
	EmotionTired     Emotion = "tired"
)

// ParseEmotion normalizes free-form client input; anything unknown maps
// to neutral so a bad capture frame never breaks a chat turn.
func ParseEmotion(raw string) Emotion {
	switch Emotion(strings.ToLower(strings.TrimSpace(raw))) {
	case EmotionHappy:
		return EmotionHappy
	case EmotionSad:
		return EmotionSad
	case EmotionAngry:
		return EmotionAngry
	case EmotionAnxious:
		return EmotionAnxious
	case EmotionSurprised:
		return EmotionSurprised
	case EmotionTired:
		return EmotionTired
	default:
		return EmotionNeutral
	}
}

// ChatTurn is one persisted message in a conversation. Turns are immutable
// after creation; history is append-only.
type ChatTurn struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	SessionID       uuid.UUID `json:"session_id"`
	Role            string    `json:"role"` // "user" or "assistant"
	Content         string    `json:"content"`
	SentimentLabel  *string   `json:"sentiment_label,omitempty"`
	SentimentScore  *float64  `json:"sentiment_score,omitempty"`
	DetectedEmotion *string   `json:"detected_emotion,omitempty"`
	CrisisFlag      bool      `json:"crisis_flag"`
	CreatedAt       time.Time `json:"created_at"`
}

type ChatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Emotion   string `json:"emotion"`
}

type ChatMessageResponse struct {
	Reply          string   `json:"reply"`
	CrisisDetected bool     `json:"crisis_detected"`
	SentimentLabel *string  `json:"sentiment_label,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Source         string   `json:"source"`
}

type SummarizeRequest struct {
	SessionID string `json:"session_id"`
}

type TextAnalysisRequest struct {
	Text string `json:"text"`
}

type TextAnalysisResponse struct {
	Text           string   `json:"text"`
	SentimentLabel string   `json:"sentiment_label"`
	SentimentScore float64  `json:"sentiment_score"`
	IsCrisis       bool     `json:"is_crisis"`
	Triggers       []string `json:"triggers"`
}
