package orchestrator

import (
	"context"
	"log"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/models"
)

// SentimentAnalyzer classifies text polarity. The second return value is
// false when the classification is unavailable; callers must treat that as
// "unknown", never as negative sentiment or crisis evidence.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (analysis.Sentiment, bool)
}

// Result is the outcome of one processed user turn.
type Result struct {
	Reply          string
	Source         string
	CrisisDetected bool
	SentimentLabel *string
	SentimentScore *float64
}

// Orchestrator composes sentiment analysis, crisis detection and the
// response source chain to answer one user turn. It never returns an
// error: every external call fails open, and the static fallback source
// guarantees a reply.
type Orchestrator struct {
	sentiment SentimentAnalyzer
	cache     *ResponseCache
	sources   []ResponseSource
}

// New builds the chain in priority order: cache lookup, then the supplied
// generators (local model before cloud), then the static fallback.
func New(sentiment SentimentAnalyzer, cache *ResponseCache, generators ...ResponseSource) *Orchestrator {
	sources := make([]ResponseSource, 0, len(generators)+2)
	sources = append(sources, &cacheSource{cache: cache})
	sources = append(sources, generators...)
	sources = append(sources, &staticSource{})

	return &Orchestrator{
		sentiment: sentiment,
		cache:     cache,
		sources:   sources,
	}
}

// ProcessMessage handles one user turn. Persistence of the resulting turns
// is the caller's responsibility; the only side effect here is a cache
// write. Crisis detection never gates reply generation.
func (o *Orchestrator) ProcessMessage(ctx context.Context, in Input) Result {
	result := Result{}

	// 1. Sentiment, best effort.
	if o.sentiment != nil {
		if s, ok := o.sentiment.Analyze(ctx, in.Message); ok {
			in.Sentiment = s
			label := s.Label
			score := s.Score
			result.SentimentLabel = &label
			result.SentimentScore = &score
		} else {
			in.Sentiment = analysis.Sentiment{Label: analysis.SentimentUnknown}
		}
	} else {
		in.Sentiment = analysis.Sentiment{Label: analysis.SentimentUnknown}
	}

	// 2. Crisis check on the raw user message.
	userCrisis := analysis.DetectCrisis(in.Message)

	// 3. Walk the source chain until one yields a non-empty reply.
	reply, source := o.generate(ctx, in)
	result.Reply = reply
	result.Source = source

	// 4. Reflection check: a generated (or cached) reply can itself
	// contain unsafe language.
	replyCrisis := analysis.DetectCrisis(reply)

	// 5. Either check flags the turn.
	result.CrisisDetected = userCrisis || replyCrisis

	return result
}

func (o *Orchestrator) generate(ctx context.Context, in Input) (string, string) {
	key := CacheKey(in.Message, in.Emotion)

	for _, source := range o.sources {
		reply, err := source.TryGenerate(ctx, in)
		if err != nil {
			log.Printf("response source %s failed: %v", source.Name(), err)
			continue
		}
		if reply == "" {
			continue
		}

		switch source.Name() {
		case "cache", "static":
			// Cache hits are already stored; the static fallback is
			// never cached.
		default:
			o.cache.Put(key, reply)
		}

		return reply, source.Name()
	}

	// Unreachable: the static source always yields a reply.
	return StaticFallbackReply, "static"
}

// EmotionHint converts a detected emotion to the persisted string form,
// nil for neutral.
func EmotionHint(emotion models.Emotion) *string {
	if emotion == models.EmotionNeutral || emotion == "" {
		return nil
	}
	s := string(emotion)
	return &s
}
