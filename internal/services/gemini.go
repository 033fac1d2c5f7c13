package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/models"
	"soultalk-backend/internal/orchestrator"
)

const systemInstruction = `You are SoulTalk, a compassionate and supportive mental health companion AI.

Your role is to:
1. Listen actively and empathetically to users
2. Provide emotional support without judgment
3. Offer gentle coping strategies when appropriate
4. Recognize signs of distress and respond with care
5. Encourage professional help when needed

Guidelines:
- Be warm, understanding, and patient
- Use "I" statements and validate feelings
- Don't diagnose or prescribe medications
- If someone is in crisis, prioritize safety and suggest crisis resources
- Keep responses concise but caring (2-4 sentences usually)

You are a supportive companion, not a replacement for professional mental health care.`

// GeminiService wraps the cloud LLM. A missing API key leaves the client
// nil; every call then reports "no result" so the source chain falls
// through instead of failing the turn.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{}

	mu    sync.Mutex
	chats map[uuid.UUID]*genai.ChatSession
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	s := &GeminiService{
		chats:    make(map[uuid.UUID]*genai.ChatSession),
		rateChan: make(chan struct{}, concurrentReqs),
	}
	for i := 0; i < concurrentReqs; i++ {
		s.rateChan <- struct{}{}
	}

	if apiKey == "" {
		// Configuration error is treated like any transient failure.
		return s, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.SetTemperature(0.7)
	model.SetTopP(0.95)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	s.client = client
	s.model = model
	return s, nil
}

// Configured reports whether an API key was supplied at startup.
func (s *GeminiService) Configured() bool {
	return s.client != nil
}

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Name implements orchestrator.ResponseSource.
func (s *GeminiService) Name() string { return "gemini" }

// TryGenerate implements orchestrator.ResponseSource. A non-neutral
// emotion is prefixed as a bracketed system note so the model can mirror
// the user's state.
func (s *GeminiService) TryGenerate(ctx context.Context, in orchestrator.Input) (string, error) {
	if s.client == nil {
		return "", nil
	}

	prompt := in.Message
	if in.Emotion != models.EmotionNeutral && in.Emotion != "" {
		label := in.Sentiment.Label
		if label == "" {
			label = analysis.SentimentUnknown
		}
		prompt = fmt.Sprintf("[System: User is %s. Sentiment: %s] %s",
			titleCase(string(in.Emotion)), label, in.Message)
	}

	return s.generateReply(ctx, in.SessionID, prompt)
}

func (s *GeminiService) generateReply(ctx context.Context, sessionID uuid.UUID, prompt string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	chat := s.sessionChat(sessionID)
	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return strings.TrimSpace(extractText(resp)), nil
}

func (s *GeminiService) sessionChat(sessionID uuid.UUID) *genai.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	chat, ok := s.chats[sessionID]
	if !ok {
		chat = s.model.StartChat()
		s.chats[sessionID] = chat
	}
	return chat
}

// ResetSession drops the conversational context for one session.
func (s *GeminiService) ResetSession(sessionID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.chats, sessionID)
}

// SummarizeConversation produces a short digest of the stored turns.
// When the cloud model is unavailable it degrades to a transcript
// excerpt rather than failing.
func (s *GeminiService) SummarizeConversation(ctx context.Context, turns []models.ChatTurn) string {
	if len(turns) == 0 {
		return "No conversation yet."
	}

	if s.client == nil {
		return fallbackSummary(turns)
	}

	if err := s.acquireRate(ctx); err != nil {
		return fallbackSummary(turns)
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var transcript strings.Builder
	for _, turn := range turns {
		transcript.WriteString(turn.Role)
		transcript.WriteString(": ")
		transcript.WriteString(turn.Content)
		transcript.WriteString("\n")
	}

	prompt := fmt.Sprintf(`Summarize this mental health support conversation in 2-3 sentences.
Focus on the key emotions and topics discussed.

Conversation:
%s
Summary:`, transcript.String())

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallbackSummary(turns)
	}

	summary := strings.TrimSpace(extractText(resp))
	if summary == "" {
		return fallbackSummary(turns)
	}
	return summary
}

func fallbackSummary(turns []models.ChatTurn) string {
	recent := turns
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	parts := make([]string, 0, len(recent))
	for _, turn := range recent {
		content := turn.Content
		if len(content) > 50 {
			content = content[:50]
		}
		parts = append(parts, turn.Role+": "+content)
	}
	return "Recent: " + strings.Join(parts, " | ")
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
