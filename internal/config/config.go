// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the ETL tunables. Overridable through the environment so a
// throttled or flaky network can be accommodated without a rebuild.
const (
	DefaultPokeAPIBase    = "https://pokeapi.co/api/v2"
	DefaultMaxConcurrency = 8
	DefaultMaxRetries     = 3
	DefaultDBPath         = "pokemon.db"
)

// Config is populated from environment variables.
type Config struct {
	// Database
	DBPath string

	// Upstream API
	PokeAPIBase       string
	HTTPTimeout       time.Duration
	MaxConcurrency    int
	MaxRetries        int
	RequestsPerSecond float64

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	return &Config{
		DBPath: envOr("DB_PATH", DefaultDBPath),

		PokeAPIBase:       strings.TrimRight(envOr("POKEAPI_BASE", DefaultPokeAPIBase), "/"),
		HTTPTimeout:       time.Duration(envFloat("HTTP_TIMEOUT_SECONDS", 10) * float64(time.Second)),
		MaxConcurrency:    envInt("MAX_CONCURRENCY", DefaultMaxConcurrency),
		MaxRetries:        envInt("MAX_RETRIES", DefaultMaxRetries),
		RequestsPerSecond: envFloat("POKEAPI_REQUESTS_PER_SECOND", 10),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8501",
		}),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
