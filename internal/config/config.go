package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Engine selection modes. In "user" mode the client's engine choice is
// honored; in "auto-only" mode the request value is ignored and the server
// always auto-selects.
const (
	EngineSelectionUser     = "user"
	EngineSelectionAutoOnly = "auto-only"
)

type Config struct {
	// Mistral OCR API
	MistralAPIKey     string
	MistralAPIBaseURL string

	// OpenRouter (native engine)
	OpenRouterAPIKey     string
	OpenRouterAPIBaseURL string
	OpenRouterModel      string

	// Auth
	JWTSecret   string
	TokenExpiry time.Duration

	// Database / cache
	DatabaseURL string
	RedisURL    string

	// Processing limits
	MaxFileSize        int64
	MaxDailyProcessing int
	MaxPageCountUser   int
	MaxPageCountAdmin  int

	// Engine selection
	EngineSelection string

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	cfg := &Config{
		MistralAPIKey:     getEnv("MISTRAL_API_KEY", ""),
		MistralAPIBaseURL: getEnv("MISTRAL_API_BASE_URL", "https://api.mistral.ai/v1/"),

		OpenRouterAPIKey:     getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterAPIBaseURL: getEnv("OPENROUTER_API_BASE_URL", "https://openrouter.ai/api/v1/"),
		OpenRouterModel:      getEnv("OPENROUTER_MODEL", "google/gemini-2.0-flash-001"),

		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenExpiry: getEnvDuration("TOKEN_EXPIRY", 8*24*time.Hour),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		MaxFileSize:        getEnvInt64("MAX_FILE_SIZE", 25*1024*1024),
		MaxDailyProcessing: getEnvInt("MAX_DAILY_PROCESSING", 20),
		MaxPageCountUser:   getEnvInt("MAX_PAGE_COUNT_USER", 100),
		MaxPageCountAdmin:  getEnvInt("MAX_PAGE_COUNT_ADMIN", 200),

		EngineSelection: getEnv("ENGINE_SELECTION", EngineSelectionUser),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.EngineSelection != EngineSelectionUser && c.EngineSelection != EngineSelectionAutoOnly {
		return fmt.Errorf("ENGINE_SELECTION must be %q or %q, got %q",
			EngineSelectionUser, EngineSelectionAutoOnly, c.EngineSelection)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	return nil
}

// MaxPageCount returns the page limit that applies to the given role.
func (c *Config) MaxPageCount(role string) int {
	if role == "admin" {
		return c.MaxPageCountAdmin
	}
	return c.MaxPageCountUser
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
