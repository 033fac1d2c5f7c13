package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"soultalk-backend/internal/analysis"
	"soultalk-backend/internal/models"
	"soultalk-backend/internal/services"
)

type AIHandler struct {
	sentiment  *services.SentimentService
	gemini     *services.GeminiService
	localModel *services.LocalModelService
}

func NewAIHandler(sentiment *services.SentimentService, gemini *services.GeminiService, localModel *services.LocalModelService) *AIHandler {
	return &AIHandler{
		sentiment:  sentiment,
		gemini:     gemini,
		localModel: localModel,
	}
}

// AnalyzeText runs the full analysis pass over a piece of text without
// generating a reply. Used by the journal UI to tag entries.
func (h *AIHandler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.TextAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Text is required", r))
		return
	}

	resp := models.TextAnalysisResponse{
		Text:           req.Text,
		SentimentLabel: analysis.SentimentUnknown,
		IsCrisis:       analysis.DetectCrisis(req.Text),
		Triggers:       analysis.CrisisTriggers(req.Text),
	}

	if sentiment, ok := h.sentiment.Analyze(r.Context(), req.Text); ok {
		resp.SentimentLabel = sentiment.Label
		resp.SentimentScore = sentiment.Score
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AIHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	var req models.TextAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Text is required", r))
		return
	}

	sentiment, ok := h.sentiment.Analyze(r.Context(), req.Text)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"label": analysis.SentimentUnknown,
			"score": 0.0,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"label": sentiment.Label,
		"score": sentiment.Score,
	})
}

func (h *AIHandler) Crisis(w http.ResponseWriter, r *http.Request) {
	var req models.TextAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"is_crisis": analysis.DetectCrisis(req.Text),
		"triggers":  analysis.CrisisTriggers(req.Text),
	})
}

// Health reports which response sources are currently usable. The chat
// endpoint works regardless; this is for dashboards.
func (h *AIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"gemini":          h.gemini != nil && h.gemini.Configured(),
		"local_model":     h.localModel != nil && h.localModel.Ready(),
		"static_fallback": true,
	})
}
