package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"soultalk-backend/internal/handlers"
	"soultalk-backend/internal/middleware"
	"soultalk-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	aiHandler *handlers.AIHandler,
	journalHandler *handlers.JournalHandler,
	contentHandler *handlers.ContentHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Get("/verify-email", authHandler.VerifyEmail)
			r.Post("/resend-verification", authHandler.ResendVerification)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
			r.Put("/emergency-contact", userHandler.UpdateEmergencyContact)
			r.Delete("/me", userHandler.DeleteAccount)
		})

		// ──── Chat Routes ────
		r.Route("/chat", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/message", chatHandler.SendMessage)
			r.Get("/history", chatHandler.History)
			r.Delete("/history", chatHandler.DeleteHistory)
			r.Post("/reset", chatHandler.Reset)
			r.Post("/summarize", chatHandler.Summarize)
		})

		// ──── AI Utility Routes ────
		r.Route("/ai", func(r chi.Router) {
			r.Get("/health", aiHandler.Health) // Public

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/analyze-text", aiHandler.AnalyzeText)
				r.Post("/sentiment", aiHandler.Sentiment)
				r.Post("/crisis", aiHandler.Crisis)
			})
		})

		// ──── Journal Routes ────
		r.Route("/journal", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", journalHandler.Create)
			r.Get("/", journalHandler.List)
			r.Delete("/{id}", journalHandler.Delete)
		})

		// ──── Exercise & Soundscape Routes ────
		r.Route("/exercises", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", contentHandler.ListExercises)
			r.Get("/{id}", contentHandler.GetExercise)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", contentHandler.CreateExercise)
				r.Delete("/{id}", contentHandler.DeleteExercise)
			})
		})

		r.Route("/soundscapes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", contentHandler.ListSoundscapes)

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", contentHandler.CreateSoundscape)
				r.Delete("/{id}", contentHandler.DeleteSoundscape)
			})
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.AdminOnly)
			r.Get("/users", adminHandler.ListUsers)
			r.Get("/stats", adminHandler.Stats)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
