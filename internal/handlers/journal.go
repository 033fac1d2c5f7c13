package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"soultalk-backend/internal/middleware"
	"soultalk-backend/internal/models"
	"soultalk-backend/internal/repository"
)

type JournalHandler struct {
	journalRepo *repository.JournalRepo
}

func NewJournalHandler(journalRepo *repository.JournalRepo) *JournalHandler {
	return &JournalHandler{journalRepo: journalRepo}
}

func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.CreateJournalEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"content": "Content is required"}, r))
		return
	}

	entry := &models.JournalEntry{
		UserID:  userID,
		Content: req.Content,
		Mood:    req.Mood,
		Tags:    req.Tags,
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}

	if err := h.journalRepo.Create(r.Context(), entry); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create journal entry", r))
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.journalRepo.ListByUser(r.Context(), userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load journal entries", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *JournalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid entry ID", r))
		return
	}

	deleted, err := h.journalRepo.Delete(r.Context(), userID, entryID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete journal entry", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Journal entry not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Journal entry deleted"})
}
