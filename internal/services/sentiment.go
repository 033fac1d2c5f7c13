package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"soultalk-backend/internal/analysis"
)

// SentimentService classifies text polarity through an HTTP sidecar
// (typically a small transformer model behind an inference server).
// Every failure mode degrades: first to the keyword scorer, finally to
// "unavailable". It never raises to the caller.
type SentimentService struct {
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewSentimentService(apiURL string, timeoutSecs int) *SentimentService {
	if timeoutSecs <= 0 {
		timeoutSecs = 3
	}
	return &SentimentService{
		apiURL:  apiURL,
		timeout: time.Duration(timeoutSecs) * time.Second,
		client:  &http.Client{},
	}
}

// Analyze implements orchestrator.SentimentAnalyzer.
func (s *SentimentService) Analyze(ctx context.Context, text string) (analysis.Sentiment, bool) {
	if strings.TrimSpace(text) == "" {
		return analysis.Sentiment{Label: analysis.SentimentUnknown}, false
	}

	if s.apiURL != "" {
		if sentiment, ok := s.classify(ctx, text); ok {
			return sentiment, true
		}
	}

	return analysis.ScoreKeywords(text)
}

func (s *SentimentService) classify(ctx context.Context, text string) (analysis.Sentiment, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	payload, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return analysis.Sentiment{}, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return analysis.Sentiment{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return analysis.Sentiment{}, false
	}

	var result struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return analysis.Sentiment{}, false
	}

	label := strings.ToLower(result.Label)
	switch label {
	case analysis.SentimentPositive, analysis.SentimentNegative, analysis.SentimentNeutral:
		return analysis.Sentiment{Label: label, Score: result.Score}, true
	default:
		return analysis.Sentiment{}, false
	}
}
