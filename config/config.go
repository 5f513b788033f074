package config

import (
	"os"
	"strconv"
	"time"

	"pricewatch/fetch"
	"pricewatch/models"
)

// App holds runtime configuration, loaded from environment variables.
type App struct {
	// Store selection: memory (default), postgres or redis.
	StoreBackend  string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string

	// Checking behavior.
	RetailersFile string
	CheckSchedule string // cron spec with seconds field
	CheckDelay    time.Duration
	FetchTimeout  time.Duration
	UserAgent     string
	RealertPolicy models.RealertPolicy

	// Notification dispatch.
	DiscordWebhookURL string

	// HTTP surface.
	Host           string
	Port           string
	AllowedOrigins string
	RateLimit      float64 // requests per second per client
	APIKey         string  // optional static key; empty disables the check
}

// Load reads configuration from the environment, applying defaults.
func Load() *App {
	return &App{
		StoreBackend:  getEnv("STORE_BACKEND", "memory"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		RetailersFile: getEnv("RETAILERS_FILE", "retailers.yaml"),
		CheckSchedule: getEnv("CHECK_SCHEDULE", "0 0 */12 * * *"),
		CheckDelay:    getEnvDuration("CHECK_DELAY", time.Second),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 25*time.Second),
		UserAgent:     getEnv("USER_AGENT", fetch.DefaultUserAgent),
		RealertPolicy: models.ParseRealertPolicy(os.Getenv("REALERT_POLICY")),

		DiscordWebhookURL: os.Getenv("DISCORD_WEBHOOK_URL"),

		Host:           getEnv("HOST", "0.0.0.0"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		RateLimit:      getEnvFloat("RATE_LIMIT", 5),
		APIKey:         os.Getenv("API_KEY"),
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
