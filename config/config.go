// ABOUTME: Configuration loader for the sector congestion backend
// ABOUTME: Loads settings from environment variables (and optional .env) with defaults

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, for analyze-response cache (default 30s)
	CORSAllowedOrigins []string // allowed CORS origins (empty = allow all, matching the UI-less default)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting on write endpoints (default: true)
	RateLimitWrite   int  // Requests per minute for /plan (default: 30)

	// Flight data
	FlightDataPath string   // JSON file with raw flight records
	StormAirports  []string // departure airports currently storm-impacted (ICAO/IATA codes)

	// Narrative explanations (optional)
	AnthropicAPIKey string
	AnthropicModel  string
}

// NarratorConfigured returns true if the Anthropic explanation service is usable.
func (c *Config) NarratorConfigured() bool {
	return c.AnthropicAPIKey != ""
}

func Load() (*Config, error) {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 30),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 30),

		FlightDataPath: getEnv("FLIGHT_DATA_PATH", "data/sample_flights.json"),
		StormAirports:  getEnvStringList("STORM_AIRPORTS"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
	}

	if cfg.FlightDataPath == "" {
		return nil, fmt.Errorf("FLIGHT_DATA_PATH is required")
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must be >= 0, got %d", cfg.CacheTTL)
	}
	if cfg.RateLimitWrite < 1 || cfg.RateLimitWrite > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_WRITE must be between 1 and 10000, got %d", cfg.RateLimitWrite)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
