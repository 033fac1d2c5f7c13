package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"soultalk-backend/internal/orchestrator"
)

const localModelPreamble = "You are SoulTalk, a caring mental health companion. " +
	"Reply to the user in 2-3 warm, supportive sentences."

// LocalModelService generates replies from an Ollama-compatible server
// running next to the backend. The model is loaded lazily: a cold model
// triggers a background warm-up and the current turn falls through to the
// next source instead of blocking.
type LocalModelService struct {
	baseURL   string
	modelName string
	client    *http.Client

	mu      sync.Mutex
	loaded  bool
	loading bool
}

func NewLocalModelService(baseURL, modelName string) *LocalModelService {
	return &LocalModelService{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		modelName: modelName,
		client:    &http.Client{},
	}
}

// Name implements orchestrator.ResponseSource.
func (s *LocalModelService) Name() string { return "local" }

// TryGenerate implements orchestrator.ResponseSource.
func (s *LocalModelService) TryGenerate(ctx context.Context, in orchestrator.Input) (string, error) {
	if s.baseURL == "" {
		return "", nil
	}

	s.mu.Lock()
	if !s.loaded {
		if !s.loading {
			s.loading = true
			go s.warmUp()
		}
		s.mu.Unlock()
		return "", nil
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := localModelPreamble + "\n\nUser: " + in.Message
	return s.generate(ctx, prompt)
}

func (s *LocalModelService) generate(ctx context.Context, prompt string) (string, error) {
	body := map[string]interface{}{
		"model":  s.modelName,
		"prompt": prompt,
		"stream": false,
		"options": map[string]interface{}{
			"num_predict":    128,
			"temperature":    0.7,
			"top_p":          0.9,
			"repeat_penalty": 1.1,
		},
	}

	payload, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local model request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local model returned status %d", resp.StatusCode)
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode local model response: %w", err)
	}

	return strings.TrimSpace(result.Response), nil
}

// warmUp loads the model into memory with an empty generate call. Runs
// once in the background; turns arriving meanwhile keep falling through.
func (s *LocalModelService) warmUp() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Printf("Warming up local model %s", s.modelName)
	_, err := s.generate(ctx, "")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Printf("Local model warm-up failed: %v", err)
		return
	}
	s.loaded = true
	log.Printf("Local model %s ready", s.modelName)
}

// Ready reports whether the model is loaded and accepting prompts.
func (s *LocalModelService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// MarkLoaded is a test hook for forcing the loaded state.
func (s *LocalModelService) MarkLoaded() {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
}
