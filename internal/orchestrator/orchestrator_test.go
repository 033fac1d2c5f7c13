package orchestrator

import (
	"context"
	"errors"
	"testing"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/models"
)

type stubSource struct {
	name  string
	reply string
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) TryGenerate(_ context.Context, _ Input) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubSentiment struct {
	sentiment analysis.Sentiment
	available bool
}

func (s *stubSentiment) Analyze(_ context.Context, _ string) (analysis.Sentiment, bool) {
	return s.sentiment, s.available
}

func TestProcessMessageFallsBackToStatic(t *testing.T) {
	// Local model cold, cloud service failing: the static fallback must
	// answer, never an empty string.
	local := &stubSource{name: "local", reply: ""}
	cloud := &stubSource{name: "gemini", err: errors.New("api error")}

	orch := New(&stubSentiment{available: false}, NewResponseCache(50), local, cloud)

	res := orch.ProcessMessage(context.Background(), Input{
		Message: "hello there",
		Emotion: models.EmotionNeutral,
	})

	if res.Reply != StaticFallbackReply {
		t.Fatalf("expected static fallback reply, got %q", res.Reply)
	}
	if res.Source != "static" {
		t.Fatalf("expected static source, got %q", res.Source)
	}
	if local.calls != 1 || cloud.calls != 1 {
		t.Fatalf("expected each source tried once, got local=%d cloud=%d", local.calls, cloud.calls)
	}
	if res.CrisisDetected {
		t.Fatal("expected no crisis for benign input")
	}
}

func TestProcessMessageSourceOrder(t *testing.T) {
	local := &stubSource{name: "local", reply: "local reply"}
	cloud := &stubSource{name: "gemini", reply: "cloud reply"}

	orch := New(&stubSentiment{available: false}, NewResponseCache(50), local, cloud)

	res := orch.ProcessMessage(context.Background(), Input{Message: "hi"})
	if res.Reply != "local reply" {
		t.Fatalf("expected the local source to win, got %q", res.Reply)
	}
	if cloud.calls != 0 {
		t.Fatal("cloud source must not be called when an earlier source succeeds")
	}
}

func TestProcessMessageCacheShortCircuits(t *testing.T) {
	cache := NewResponseCache(50)
	cloud := &stubSource{name: "gemini", reply: "generated"}
	orch := New(&stubSentiment{available: false}, cache, cloud)

	in := Input{Message: "I'm okay", Emotion: models.EmotionHappy}

	first := orch.ProcessMessage(context.Background(), in)
	if first.Source != "gemini" {
		t.Fatalf("expected generated reply first, got source %q", first.Source)
	}

	second := orch.ProcessMessage(context.Background(), in)
	if second.Source != "cache" {
		t.Fatalf("expected cache hit on repeat turn, got source %q", second.Source)
	}
	if second.Reply != "generated" {
		t.Fatalf("expected cached reply, got %q", second.Reply)
	}
	if cloud.calls != 1 {
		t.Fatalf("expected cloud called exactly once, got %d", cloud.calls)
	}
}

func TestProcessMessageStaticReplyNotCached(t *testing.T) {
	cache := NewResponseCache(50)
	orch := New(&stubSentiment{available: false}, cache)

	orch.ProcessMessage(context.Background(), Input{Message: "anyone there"})
	if cache.Len() != 0 {
		t.Fatal("static fallback reply must never be written to the cache")
	}
}

func TestProcessMessageUserCrisis(t *testing.T) {
	cloud := &stubSource{name: "gemini", reply: "I'm here for you. You matter."}
	orch := New(&stubSentiment{available: false}, NewResponseCache(50), cloud)

	res := orch.ProcessMessage(context.Background(), Input{Message: "I want to end my life"})
	if !res.CrisisDetected {
		t.Fatal("expected crisis flag for user message with crisis phrase")
	}
	if res.Reply == "" {
		t.Fatal("crisis detection must not suppress reply generation")
	}
}

func TestProcessMessageReflectionCrisis(t *testing.T) {
	// The user message is benign but the generated reply contains unsafe
	// language; the reflection check must still flag the turn.
	cloud := &stubSource{name: "gemini", reply: "some people feel better off dead"}
	orch := New(&stubSentiment{available: false}, NewResponseCache(50), cloud)

	res := orch.ProcessMessage(context.Background(), Input{Message: "tell me more"})
	if !res.CrisisDetected {
		t.Fatal("expected reflection check to flag unsafe reply text")
	}
}

func TestProcessMessageSentimentMetadata(t *testing.T) {
	sent := &stubSentiment{
		sentiment: analysis.Sentiment{Label: analysis.SentimentNegative, Score: 0.91},
		available: true,
	}
	cloud := &stubSource{name: "gemini", reply: "Take a breath—I'm listening."}
	orch := New(sent, NewResponseCache(50), cloud)

	res := orch.ProcessMessage(context.Background(), Input{
		Message: "I'm feeling really anxious right now.",
		Emotion: models.EmotionAnxious,
	})

	if res.Reply != "Take a breath—I'm listening." {
		t.Fatalf("unexpected reply %q", res.Reply)
	}
	if res.CrisisDetected {
		t.Fatal("anxious is not crisis evidence")
	}
	if res.SentimentLabel == nil || *res.SentimentLabel != analysis.SentimentNegative {
		t.Fatalf("expected sentiment label propagated, got %v", res.SentimentLabel)
	}
	if res.SentimentScore == nil || *res.SentimentScore != 0.91 {
		t.Fatalf("expected sentiment score propagated, got %v", res.SentimentScore)
	}
}

func TestProcessMessageUnavailableSentiment(t *testing.T) {
	cloud := &stubSource{name: "gemini", reply: "ok"}
	orch := New(&stubSentiment{available: false}, NewResponseCache(50), cloud)

	res := orch.ProcessMessage(context.Background(), Input{Message: "hello"})
	if res.SentimentLabel != nil || res.SentimentScore != nil {
		t.Fatal("unavailable sentiment must yield no metadata, not a negative label")
	}
	if res.CrisisDetected {
		t.Fatal("unavailable sentiment is never crisis evidence")
	}
}
