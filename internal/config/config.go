package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store backend selectors
const (
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Shopping-list ingredient merge strategies. The source material disagrees
// with itself on whether same-named ingredients overwrite or sum; the
// policy is configurable and defaults to overwrite.
const (
	MergeStrategyOverwrite = "overwrite"
	MergeStrategySum       = "sum"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	FrontendURL     string
	OpenAIKey       string
	AIModel         string
	AIBaseURL       string
	AITimeoutSecs   int
	StoreBackend    string
	RedisURL        string
	DatabaseURL     string
	MergeStrategy   string
	RateLimit       string
	EnableHSTS      bool
	ServerDebugMode bool
	OTELEnabled     bool
	OTELEndpoint    string
}

// Load loads configuration from environment variables. The OpenAI key is
// always injected here, never compiled in.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		OpenAIKey:       getEnv("OPENAI_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", ""),
		AIBaseURL:       getEnv("AI_BASE_URL", ""),
		AITimeoutSecs:   getEnvInt("AI_TIMEOUT_SECONDS", 90),
		StoreBackend:    getEnv("STORE_BACKEND", StoreBackendRedis),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MergeStrategy:   getEnv("SHOPPING_MERGE_STRATEGY", MergeStrategyOverwrite),
		RateLimit:       getEnv("RATE_LIMIT", "10-M"),
		EnableHSTS:      getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode: getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch cfg.StoreBackend {
	case StoreBackendRedis, StoreBackendMemory:
	case StoreBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q (want redis, postgres or memory)", cfg.StoreBackend)
	}

	switch cfg.MergeStrategy {
	case MergeStrategyOverwrite, MergeStrategySum:
	default:
		return nil, fmt.Errorf("unknown SHOPPING_MERGE_STRATEGY %q (want overwrite or sum)", cfg.MergeStrategy)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
