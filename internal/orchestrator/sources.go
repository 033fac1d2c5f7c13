package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/models"
)

// StaticFallbackReply is the terminal response source. It is always
// available and never cached.
const StaticFallbackReply = "I'm having trouble connecting right now, but I'm here for you."

// Input carries one user turn through the response source chain.
type Input struct {
	SessionID uuid.UUID
	Message   string
	Emotion   models.Emotion
	Sentiment analysis.Sentiment
}

// ResponseSource is one candidate reply generator. TryGenerate returns an
// empty string or an error to mean "no result for this turn"; the chain
// moves on to the next source either way.
type ResponseSource interface {
	Name() string
	TryGenerate(ctx context.Context, in Input) (string, error)
}

type cacheSource struct {
	cache *ResponseCache
}

func (s *cacheSource) Name() string { return "cache" }

func (s *cacheSource) TryGenerate(_ context.Context, in Input) (string, error) {
	reply, ok := s.cache.Get(CacheKey(in.Message, in.Emotion))
	if !ok {
		return "", nil
	}
	return reply, nil
}

type staticSource struct{}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) TryGenerate(_ context.Context, _ Input) (string, error) {
	return StaticFallbackReply, nil
}
