package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"soultalk-backend/internal/repository"
)

type AdminHandler struct {
	userRepo *repository.UserRepo
	pool     *pgxpool.Pool
}

func NewAdminHandler(userRepo *repository.UserRepo, pool *pgxpool.Pool) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, pool: pool}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load users", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats struct {
		TotalUsers     int `json:"total_users"`
		VerifiedUsers  int `json:"verified_users"`
		TotalMessages  int `json:"total_messages"`
		CrisisMessages int `json:"crisis_messages"`
		JournalEntries int `json:"journal_entries"`
	}

	err := h.pool.QueryRow(r.Context(), `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_verified = TRUE) AS verified_users,
			(SELECT COUNT(*) FROM chat_messages) AS total_messages,
			(SELECT COUNT(*) FROM chat_messages WHERE crisis_flag = TRUE) AS crisis_messages,
			(SELECT COUNT(*) FROM journal_entries) AS journal_entries
	`).Scan(&stats.TotalUsers, &stats.VerifiedUsers, &stats.TotalMessages, &stats.CrisisMessages, &stats.JournalEntries)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to load stats", r))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
