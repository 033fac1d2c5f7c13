package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/middleware"
	"soultalk-backend/internal/models"
	"soultalk-backend/internal/orchestrator"
	"soultalk-backend/internal/repository"
	"soultalk-backend/internal/services"
)

type ChatHandler struct {
	orch       *orchestrator.Orchestrator
	chatRepo   *repository.ChatRepo
	userRepo   *repository.UserRepo
	gemini     *services.GeminiService
	escalation *services.EscalationService
	queue      *redis.Client
}

func NewChatHandler(
	orch *orchestrator.Orchestrator,
	chatRepo *repository.ChatRepo,
	userRepo *repository.UserRepo,
	gemini *services.GeminiService,
	escalation *services.EscalationService,
	queue *redis.Client,
) *ChatHandler {
	return &ChatHandler{
		orch:       orch,
		chatRepo:   chatRepo,
		userRepo:   userRepo,
		gemini:     gemini,
		escalation: escalation,
		queue:      queue,
	}
}

// SendMessage handles one chat turn: analyze, generate a reply through the
// source chain, persist both turns, then escalate asynchronously if the
// turn was flagged. The reply is never blocked on escalation.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	emotion := models.ParseEmotion(req.Emotion)

	result := h.orch.ProcessMessage(r.Context(), orchestrator.Input{
		SessionID: sessionID,
		Message:   req.Message,
		Emotion:   emotion,
	})

	userTurn := &models.ChatTurn{
		UserID:          userID,
		SessionID:       sessionID,
		Role:            "user",
		Content:         req.Message,
		SentimentLabel:  result.SentimentLabel,
		SentimentScore:  result.SentimentScore,
		DetectedEmotion: orchestrator.EmotionHint(emotion),
		CrisisFlag:      analysis.DetectCrisis(req.Message),
	}
	if err := h.chatRepo.CreateTurn(r.Context(), userTurn); err != nil {
		log.Printf("failed to persist user turn for session %s: %v", sessionID, err)
	}

	assistantTurn := &models.ChatTurn{
		UserID:     userID,
		SessionID:  sessionID,
		Role:       "assistant",
		Content:    result.Reply,
		CrisisFlag: result.CrisisDetected,
	}
	if err := h.chatRepo.CreateTurn(r.Context(), assistantTurn); err != nil {
		log.Printf("failed to persist assistant turn for session %s: %v", sessionID, err)
	}

	if result.CrisisDetected {
		go h.escalate(sessionID, userID)
	}

	writeJSON(w, http.StatusOK, models.ChatMessageResponse{
		Reply:          result.Reply,
		CrisisDetected: result.CrisisDetected,
		SentimentLabel: result.SentimentLabel,
		SentimentScore: result.SentimentScore,
		Source:         result.Source,
	})
}

func (h *ChatHandler) escalate(sessionID, userID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		log.Printf("crisis escalation: failed to load user %s: %v", userID, err)
		return
	}

	h.escalation.Trigger(ctx, sessionID, user)
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if sessionIDStr := r.URL.Query().Get("session_id"); sessionIDStr != "" {
		sessionID, err := uuid.Parse(sessionIDStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
			return
		}

		turns, err := h.chatRepo.GetSessionHistory(r.Context(), userID, sessionID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load chat history", r))
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{"messages": turns})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	turns, err := h.chatRepo.GetHistory(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load chat history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": turns})
}

// DeleteHistory removes a session's persisted turns. Distinct from Reset:
// this erases the record, Reset only drops the model's working memory.
func (h *ChatHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	if err := h.chatRepo.DeleteSession(r.Context(), userID, sessionID); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete chat history", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history deleted"})
}

// Reset clears the server-side conversation state for a session. Persisted
// history stays; only the model's working memory is dropped.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	if h.gemini != nil {
		h.gemini.ResetSession(sessionID)
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session reset"})
}

// Summarize enqueues a background summary job for the session and returns
// immediately; the result is delivered over the WebSocket hub.
func (h *ChatHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid session ID", r))
		return
	}

	job := models.Job{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      "chat-summary",
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}

	jobBytes, _ := json.Marshal(job)
	if err := h.queue.LPush(r.Context(), "queue:chat-summary", string(jobBytes)).Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to enqueue summary job", r))
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":  job.ID,
		"message": "Summary is being generated",
	})
}
