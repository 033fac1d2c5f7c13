package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"soultalk-backend/internal/services"
)

// ─── Chat Handler Tests ───

func TestSendMessage_Validation(t *testing.T) {
	handler := NewChatHandler(nil, nil, nil, nil, nil, nil)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty message", map[string]string{"session_id": "8f7b1c9e-3d62-4a10-9d5f-2c1a0b8e4f6d", "message": "   "}},
		{"missing session id", map[string]string{"message": "hello"}},
		{"malformed session id", map[string]string{"session_id": "not-a-uuid", "message": "hello"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(tc.body)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/message", bytes.NewReader(jsonBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler.SendMessage(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}

			var resp map[string]map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if resp["error"]["code"] != "VALIDATION_ERROR" {
				t.Errorf("Expected code VALIDATION_ERROR, got %v", resp["error"]["code"])
			}
		})
	}
}

func TestChatReset_InvalidSession(t *testing.T) {
	handler := NewChatHandler(nil, nil, nil, nil, nil, nil)

	jsonBody, _ := json.Marshal(map[string]string{"session_id": "garbage"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/reset", bytes.NewReader(jsonBody))
	rr := httptest.NewRecorder()

	handler.Reset(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

// ─── AI Handler Tests ───

func TestAnalyzeText_CrisisAndSentiment(t *testing.T) {
	// No sidecar configured: the keyword fallback classifies.
	handler := NewAIHandler(services.NewSentimentService("", 3), nil, nil)

	jsonBody, _ := json.Marshal(map[string]string{"text": "I feel hopeless and want to end my life"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-text", bytes.NewReader(jsonBody))
	rr := httptest.NewRecorder()

	handler.AnalyzeText(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp struct {
		SentimentLabel string   `json:"sentiment_label"`
		IsCrisis       bool     `json:"is_crisis"`
		Triggers       []string `json:"triggers"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !resp.IsCrisis {
		t.Error("Expected crisis to be detected")
	}
	if len(resp.Triggers) == 0 {
		t.Error("Expected at least one trigger phrase")
	}
	if resp.SentimentLabel != "negative" {
		t.Errorf("Expected negative sentiment, got %q", resp.SentimentLabel)
	}
}

func TestAnalyzeText_EmptyText(t *testing.T) {
	handler := NewAIHandler(services.NewSentimentService("", 3), nil, nil)

	jsonBody, _ := json.Marshal(map[string]string{"text": ""})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/analyze-text", bytes.NewReader(jsonBody))
	rr := httptest.NewRecorder()

	handler.AnalyzeText(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestCrisisEndpoint(t *testing.T) {
	handler := NewAIHandler(services.NewSentimentService("", 3), nil, nil)

	tests := []struct {
		name     string
		text     string
		isCrisis bool
	}{
		{"crisis phrase", "sometimes I think about hurting myself", false},
		{"explicit crisis phrase", "I want to hurt myself", true},
		{"safe text", "I had a rough day but I'm okay", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jsonBody, _ := json.Marshal(map[string]string{"text": tc.text})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/crisis", bytes.NewReader(jsonBody))
			rr := httptest.NewRecorder()

			handler.Crisis(rr, req)

			var resp struct {
				IsCrisis bool `json:"is_crisis"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.IsCrisis != tc.isCrisis {
				t.Errorf("Expected is_crisis=%v for %q, got %v", tc.isCrisis, tc.text, resp.IsCrisis)
			}
		})
	}
}

func TestAIHealth_NoProviders(t *testing.T) {
	handler := NewAIHandler(services.NewSentimentService("", 3), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai/health", nil)
	rr := httptest.NewRecorder()

	handler.Health(rr, req)

	var resp map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp["gemini"] {
		t.Error("Expected gemini unavailable without a client")
	}
	if !resp["static_fallback"] {
		t.Error("Static fallback must always be available")
	}
}

// ─── JSON Response Tests ───

func TestErrorRespEnvelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")

	resp := errorResp("NOT_FOUND", "Missing thing", req)

	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected code NOT_FOUND, got %q", resp.Error.Code)
	}
	if resp.Error.RequestID != "req-123" {
		t.Errorf("Expected request ID to be echoed, got %q", resp.Error.RequestID)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	writeJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", rr.Header().Get("Content-Type"))
	}
}
