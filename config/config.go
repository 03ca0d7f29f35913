// Package config reads application configuration from environment
// variables with sane defaults, mirroring the defaults a new project is
// seeded with.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
	Fetch     FetchConfig
	AI        AIConfig
	Database  DatabaseConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// FetchConfig controls the fetcher's transport-level defaults, applied
// before any per-project scraping settings override them.
type FetchConfig struct {
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout time.Duration // default: 15s

	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 // default: 10MiB
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// RateLimitConfig controls per-key HTTP rate limiting (distinct from the
// per-project adaptive fetch rate limiter, which lives on the project's
// own ScrapingSettings).
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the in-memory project/result cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// AIConfig holds the default BYOK credentials used when a project's AI
// settings don't override them.
type AIConfig struct {
	APIKey  string
	BaseURL string // default: "https://api.openai.com/v1"
}

// DatabaseConfig points at the project/chunk store. An empty URL means the
// server falls back to the in-memory repository (fine for a single process,
// lost on restart).
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("RAGFORGE_HOST", "0.0.0.0"),
			Port: envIntOr("RAGFORGE_PORT", 8080),
			Mode: envOr("RAGFORGE_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("RAGFORGE_AUTH_ENABLED", true),
			APIKeys: envSliceOr("RAGFORGE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("RAGFORGE_RATE_RPS", 5.0),
			Burst:             envIntOr("RAGFORGE_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("RAGFORGE_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("RAGFORGE_LOG_LEVEL", "info"),
			Format: envOr("RAGFORGE_LOG_FORMAT", "json"),
		},
		Fetch: FetchConfig{
			DefaultTimeout: envDurationOr("RAGFORGE_FETCH_TIMEOUT", 15*time.Second),
			MaxTimeout:     envDurationOr("RAGFORGE_FETCH_MAX_TIMEOUT", 120*time.Second),
			MaxBodyBytes:   envInt64Or("RAGFORGE_FETCH_MAX_BODY_BYTES", 10<<20),
		},
		AI: AIConfig{
			APIKey:  os.Getenv("RAGFORGE_AI_API_KEY"),
			BaseURL: envOr("RAGFORGE_AI_BASE_URL", "https://api.openai.com/v1"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("RAGFORGE_DATABASE_URL"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envInt64Or(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
