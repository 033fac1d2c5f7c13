package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"soultalk-backend/internal/analysis"
)

func TestSentimentServiceUsesSidecar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"label":"NEGATIVE","score":0.93}`))
	}))
	defer server.Close()

	svc := NewSentimentService(server.URL, 3)

	sentiment, ok := svc.Analyze(context.Background(), "everything is falling apart")
	if !ok {
		t.Fatal("expected sidecar classification to succeed")
	}
	if sentiment.Label != analysis.SentimentNegative {
		t.Fatalf("expected negative label, got %q", sentiment.Label)
	}
	if sentiment.Score != 0.93 {
		t.Fatalf("expected score 0.93, got %v", sentiment.Score)
	}
}

func TestSentimentServiceFallsBackToKeywords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewSentimentService(server.URL, 1)

	sentiment, ok := svc.Analyze(context.Background(), "today was a great and happy day")
	if !ok {
		t.Fatal("expected keyword fallback to classify")
	}
	if sentiment.Label != analysis.SentimentPositive {
		t.Fatalf("expected positive fallback label, got %q", sentiment.Label)
	}
}

func TestSentimentServiceEmptyTextUnavailable(t *testing.T) {
	svc := NewSentimentService("", 3)

	if _, ok := svc.Analyze(context.Background(), "   "); ok {
		t.Fatal("expected empty input to be unavailable, not classified")
	}
}

func TestSentimentServiceRejectsUnknownLabels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"label":"LABEL_7","score":0.5}`))
	}))
	defer server.Close()

	svc := NewSentimentService(server.URL, 3)

	// An unmappable sidecar label falls through to the keyword scorer.
	sentiment, ok := svc.Analyze(context.Background(), "I hate this terrible week")
	if !ok {
		t.Fatal("expected fallback classification")
	}
	if sentiment.Label != analysis.SentimentNegative {
		t.Fatalf("expected negative fallback label, got %q", sentiment.Label)
	}
}
