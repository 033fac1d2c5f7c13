package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI
	GeminiAPIKey         string
	GeminiConcurrentReqs int

	// Sentiment classifier sidecar
	SentimentAPIURL      string
	SentimentTimeoutSecs int

	// Locally-hosted generative model (Ollama-compatible)
	LocalModelURL  string
	LocalModelName string

	// Crisis escalation
	CrisisWebhookURL string
	GeolocationURL   string

	// Response cache
	ResponseCacheSize int

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		GeminiAPIKey:         getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiConcurrentReqs: getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),

		SentimentAPIURL:      getEnvOrDefault("SENTIMENT_API_URL", ""),
		SentimentTimeoutSecs: getEnvAsIntOrDefault("SENTIMENT_TIMEOUT_SECONDS", 3),

		LocalModelURL:  getEnvOrDefault("LOCAL_MODEL_URL", ""),
		LocalModelName: getEnvOrDefault("LOCAL_MODEL_NAME", "gemma2:2b"),

		CrisisWebhookURL: getEnvOrDefault("CRISIS_WEBHOOK_URL", ""),
		GeolocationURL:   getEnvOrDefault("GEOLOCATION_URL", "https://ipapi.co/json/"),

		ResponseCacheSize: getEnvAsIntOrDefault("RESPONSE_CACHE_SIZE", 50),

		SMTPHost: getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort: getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser: getEnvOrDefault("SMTP_USER", ""),
		SMTPPass: getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom: getEnvOrDefault("SMTP_FROM", "noreply@soultalk.app"),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
