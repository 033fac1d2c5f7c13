package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// API error response envelope.
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WSMessage is the envelope pushed to the browser over the WebSocket hub.
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type CrisisAlertEvent struct {
	SessionID    uuid.UUID `json:"session_id"`
	ContactName  string    `json:"contact_name"`
	LocationHint string    `json:"location_hint"`
	SentAt       time.Time `json:"sent_at"`
}

type SummaryReadyEvent struct {
	JobID     uuid.UUID `json:"job_id"`
	SessionID uuid.UUID `json:"session_id"`
	Summary   string    `json:"summary"`
}

// Job is a transient queue payload, not a durable record.
type Job struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"` // "crisis-notification" | "chat-summary"
	SessionID uuid.UUID       `json:"session_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
