package config

import (
	"os"
	"strconv"
	"time"

	"tribunal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	AI        AIConfig
	Server    ServerConfig
	Auth      AuthConfig
	Uploads   UploadConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// AIConfig holds oracle/LLM related settings
type AIConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// Temperature is kept low to bias the judge toward consistent
	// reasoning across rounds.
	Temperature float32

	// MaxVerdictTokens caps the round-0 verdict response size;
	// MaxRoundVerdictTokens caps argument-round responses.
	MaxVerdictTokens      int
	MaxRoundVerdictTokens int
	MaxExtractionTokens   int

	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

// UploadConfig holds document upload settings
type UploadConfig struct {
	Dir                  string
	MaxSizeMB            int
	ExtractionConcurrency int
}

// ProfilingConfig holds ops/profiling surface settings
type ProfilingConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.ConfigInvalid("OPENAI_API_KEY is required")
	}

	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		return nil, errors.ConfigInvalid("SECRET_KEY is required")
	}

	cfg := &Config{
		Database: DatabaseConfig{URL: dbURL},
		AI: AIConfig{
			APIKey:                apiKey,
			BaseURL:               getEnvOrDefault("OPENAI_BASE_URL", ""),
			Model:                 getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
			Temperature:           float32(getEnvFloatOrDefault("LLM_TEMPERATURE", 0.3)),
			MaxVerdictTokens:      getEnvIntOrDefault("MAX_VERDICT_TOKENS", 2000),
			MaxRoundVerdictTokens: getEnvIntOrDefault("MAX_ROUND_VERDICT_TOKENS", 2500),
			MaxExtractionTokens:   getEnvIntOrDefault("MAX_EXTRACTION_TOKENS", 4000),
			Timeout:               getEnvDurationOrDefault("LLM_TIMEOUT", 120*time.Second),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			OpsPort: getEnvOrDefault("OPS_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Auth: AuthConfig{
			SecretKey: secret,
			TokenTTL:  getEnvDurationOrDefault("ACCESS_TOKEN_TTL", 30*24*time.Hour),
		},
		Uploads: UploadConfig{
			Dir:                   getEnvOrDefault("UPLOAD_DIR", "./uploads"),
			MaxSizeMB:             getEnvIntOrDefault("MAX_UPLOAD_SIZE_MB", 10),
			ExtractionConcurrency: getEnvIntOrDefault("EXTRACTION_CONCURRENCY", 2),
		},
		Profiling: ProfilingConfig{
			Enabled: getEnvBoolOrDefault("PROFILING_ENABLED", false),
		},
	}

	if cfg.Uploads.MaxSizeMB <= 0 {
		return nil, errors.ConfigInvalid("MAX_UPLOAD_SIZE_MB must be positive")
	}
	if cfg.Uploads.ExtractionConcurrency <= 0 {
		return nil, errors.ConfigInvalid("EXTRACTION_CONCURRENCY must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
