package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"soultalk-backend/internal/config"
	"soultalk-backend/internal/database"
	"soultalk-backend/internal/handlers"
	"soultalk-backend/internal/middleware"
	"soultalk-backend/internal/orchestrator"
	"soultalk-backend/internal/repository"
	"soultalk-backend/internal/router"
	"soultalk-backend/internal/services"
	"soultalk-backend/internal/websocket"
	"soultalk-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting SoulTalk Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	chatRepo := repository.NewChatRepo(pool)
	journalRepo := repository.NewJournalRepo(pool)
	contentRepo := repository.NewContentRepo(pool)

	// ──── Step 5: Initialize Response Sources ────
	geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiService.Close()
	if geminiService.Configured() {
		log.Println("✓ Gemini Flash client initialized")
	} else {
		log.Println("⚠ Gemini API key not set, cloud source disabled")
	}

	localModelService := services.NewLocalModelService(cfg.LocalModelURL, cfg.LocalModelName)
	sentimentService := services.NewSentimentService(cfg.SentimentAPIURL, cfg.SentimentTimeoutSecs)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService)
	publisher := services.NewEventPublisher(redisClients.Queue)

	alertRegistry := services.NewRedisAlertRegistry(redisClients.Queue)
	escalationService := services.NewEscalationService(
		alertRegistry,
		redisClients.Queue,
		cfg.CrisisWebhookURL,
		cfg.GeolocationURL,
		emailService,
		publisher,
	)

	responseCache := orchestrator.NewResponseCache(cfg.ResponseCacheSize)
	orch := orchestrator.New(sentimentService, responseCache, localModelService, geminiService)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	chatHandler := handlers.NewChatHandler(orch, chatRepo, userRepo, geminiService, escalationService, redisClients.Queue)
	aiHandler := handlers.NewAIHandler(sentimentService, geminiService, localModelService)
	journalHandler := handlers.NewJournalHandler(journalRepo)
	contentHandler := handlers.NewContentHandler(contentRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, pool)

	// ──── Step 6: Start Job Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		geminiService,
		escalationService,
		publisher,
		userRepo,
		chatRepo,
		5,
	)
	workerPool.Start()
	log.Println("✓ Worker pool started (5 goroutines)")

	checkInScheduler := services.NewCheckInScheduler(userRepo, journalRepo, emailService, redisClients.Queue)
	checkInScheduler.Start()
	log.Println("✓ Check-in reminder scheduler started")

	// ──── Step 7: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 8: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		userHandler,
		chatHandler,
		aiHandler,
		journalHandler,
		contentHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		checkInScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ SoulTalk Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
