package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"soultalk-backend/internal/orchestrator"
)

func TestLocalModelUnconfiguredYieldsNoResult(t *testing.T) {
	svc := NewLocalModelService("", "gemma2:2b")

	reply, err := svc.TryGenerate(context.Background(), orchestrator.Input{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "" {
		t.Fatalf("expected no result without a base URL, got %q", reply)
	}
}

func TestLocalModelColdLoadFallsThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "warm reply"})
	}))
	defer server.Close()

	svc := NewLocalModelService(server.URL, "gemma2:2b")

	// First turn arrives before the model is loaded: it must not block.
	reply, err := svc.TryGenerate(context.Background(), orchestrator.Input{Message: "hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "" {
		t.Fatalf("expected cold model to yield no result, got %q", reply)
	}
}

func TestLocalModelGeneratesWhenLoaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode generate request: %v", err)
		}
		if req.Model != "gemma2:2b" {
			t.Errorf("expected model gemma2:2b, got %q", req.Model)
		}
		if req.Stream {
			t.Error("expected stream=false")
		}

		json.NewEncoder(w).Encode(map[string]string{"response": "  I'm here with you.  "})
	}))
	defer server.Close()

	svc := NewLocalModelService(server.URL, "gemma2:2b")
	svc.MarkLoaded()

	reply, err := svc.TryGenerate(context.Background(), orchestrator.Input{Message: "I feel low today"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "I'm here with you." {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
}

func TestLocalModelServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewLocalModelService(server.URL, "gemma2:2b")
	svc.MarkLoaded()

	if _, err := svc.TryGenerate(context.Background(), orchestrator.Input{Message: "hello"}); err == nil {
		t.Fatal("expected an error from a failing model server")
	}
}
