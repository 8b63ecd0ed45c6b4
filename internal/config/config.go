package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	ServerPort string
	GinMode    string
	LogLevel   string
	LogFormat  string
	RedisURL   string
	JWTSecret  string
	JWTExpiry  time.Duration
	BcryptCost int
	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string

	// EvaluatorURL is the external answer evaluator. Empty disables it and
	// every answer is scored locally.
	EvaluatorURL     string
	EvaluatorAPIKey  string
	EvaluatorTimeout time.Duration

	DefaultQuestionCount int
	SubmitRatePerMinute  int
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8080"),
		GinMode:              getEnv("GIN_MODE", "debug"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogFormat:            getEnv("LOG_FORMAT", "pretty"),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:            getEnv("JWT_SECRET", "change-this-to-a-secure-random-string"),
		JWTExpiry:            time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24)) * time.Hour,
		BcryptCost:           getEnvInt("BCRYPT_COST", 6),
		AllowedOrigins:       parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
		EvaluatorURL:         strings.TrimSpace(os.Getenv("EVALUATOR_URL")),
		EvaluatorAPIKey:      os.Getenv("EVALUATOR_API_KEY"),
		EvaluatorTimeout:     time.Duration(getEnvInt("EVALUATOR_TIMEOUT_SECONDS", 15)) * time.Second,
		DefaultQuestionCount: getEnvInt("DEFAULT_QUESTION_COUNT", 5),
		SubmitRatePerMinute:  getEnvInt("SUBMIT_RATE_PER_MINUTE", 30),
	}
}

// EvaluatorEnabled reports whether an external evaluator is configured.
func (c *Config) EvaluatorEnabled() bool {
	return c.EvaluatorURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
