package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"soultalk-backend/internal/models"
	"soultalk-backend/internal/repository"
)

// ContentHandler serves the curated exercise and soundscape catalogs.
// Reads are open to any authenticated user; writes are admin-only at the
// router level.
type ContentHandler struct {
	contentRepo *repository.ContentRepo
}

func NewContentHandler(contentRepo *repository.ContentRepo) *ContentHandler {
	return &ContentHandler{contentRepo: contentRepo}
}

func (h *ContentHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.contentRepo.ListExercises(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load exercises", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"exercises": exercises})
}

func (h *ContentHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exercise ID", r))
		return
	}

	exercise, err := h.contentRepo.GetExercise(r.Context(), exerciseID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Exercise not found", r))
		return
	}

	writeJSON(w, http.StatusOK, exercise)
}

func (h *ContentHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.Title == "" {
		fieldErrors["title"] = "Title is required"
	}
	switch req.VisualizationType {
	case "LIST", "BREATHING", "TIMER":
	default:
		fieldErrors["visualization_type"] = "Must be LIST, BREATHING or TIMER"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	exercise := &models.Exercise{
		Title:             req.Title,
		Description:       req.Description,
		Duration:          req.Duration,
		Category:          req.Category,
		VisualizationType: req.VisualizationType,
		Steps:             req.Steps,
	}
	if exercise.Steps == nil {
		exercise.Steps = []string{}
	}

	if err := h.contentRepo.CreateExercise(r.Context(), exercise); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create exercise", r))
		return
	}

	writeJSON(w, http.StatusCreated, exercise)
}

func (h *ContentHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid exercise ID", r))
		return
	}

	deleted, err := h.contentRepo.DeleteExercise(r.Context(), exerciseID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete exercise", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Exercise not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Exercise deleted"})
}

func (h *ContentHandler) ListSoundscapes(w http.ResponseWriter, r *http.Request) {
	soundscapes, err := h.contentRepo.ListSoundscapes(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load soundscapes", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"soundscapes": soundscapes})
}

func (h *ContentHandler) CreateSoundscape(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSoundscapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fieldErrors := make(map[string]string)
	if req.Name == "" {
		fieldErrors["name"] = "Name is required"
	}
	if req.URL == "" {
		fieldErrors["url"] = "URL is required"
	}
	if len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fieldErrors, r))
		return
	}

	soundscape := &models.Soundscape{Name: req.Name, URL: req.URL}
	if err := h.contentRepo.CreateSoundscape(r.Context(), soundscape); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create soundscape", r))
		return
	}

	writeJSON(w, http.StatusCreated, soundscape)
}

func (h *ContentHandler) DeleteSoundscape(w http.ResponseWriter, r *http.Request) {
	soundscapeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid soundscape ID", r))
		return
	}

	deleted, err := h.contentRepo.DeleteSoundscape(r.Context(), soundscapeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to delete soundscape", r))
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Soundscape not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Soundscape deleted"})
}
