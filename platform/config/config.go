// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// CoverageConfig provides settings for the coverage provider client.
type CoverageConfig interface {
	GetCoverageBaseURL() string
	GetCoverageAPIKey() string
	GetCoverageTimeout() time.Duration
}

// GeocodeConfig provides settings for the geocoding provider client.
type GeocodeConfig interface {
	GetGeocodeAPIURL() string
	GetGeocodeAPIKey() string
	GetGeocodeRatePerSec() float64
}

// CacheConfig provides settings for the lookup cache.
type CacheConfig interface {
	GetCacheTTL() time.Duration
	GetRedisAddr() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	CORSAllowAll      bool
	CORSOrigins       []string
	CORSAllowCreds    bool
	CoverageBaseURL   string
	CoverageAPIKey    string
	CoverageTimeout   time.Duration
	GeocodeAPIURL     string
	GeocodeAPIKey     string
	GeocodeRatePerSec float64
	CacheTTL          time.Duration
	RedisAddr         string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// CoverageConfig implementation
func (c *Config) GetCoverageBaseURL() string        { return c.CoverageBaseURL }
func (c *Config) GetCoverageAPIKey() string         { return c.CoverageAPIKey }
func (c *Config) GetCoverageTimeout() time.Duration { return c.CoverageTimeout }

// GeocodeConfig implementation
func (c *Config) GetGeocodeAPIURL() string      { return c.GeocodeAPIURL }
func (c *Config) GetGeocodeAPIKey() string      { return c.GeocodeAPIKey }
func (c *Config) GetGeocodeRatePerSec() float64 { return c.GeocodeRatePerSec }

// CacheConfig implementation
func (c *Config) GetCacheTTL() time.Duration { return c.CacheTTL }
func (c *Config) GetRedisAddr() string       { return c.RedisAddr }

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		CoverageBaseURL:   getEnv("COVERAGE_BASE_URL", ""),
		CoverageAPIKey:    getEnv("COVERAGE_API_KEY", ""),
		CoverageTimeout:   mustDuration(getEnv("COVERAGE_TIMEOUT", "15s")),
		GeocodeAPIURL:     getEnv("GEOCODE_API_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocodeAPIKey:     getEnv("GEOCODE_API_KEY", ""),
		GeocodeRatePerSec: mustFloat(getEnv("GEOCODE_RATE_PER_SEC", "5")),
		CacheTTL:          mustDuration(getEnv("CACHE_TTL", "5m")),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
	}

	if cfg.CoverageBaseURL == "" {
		return nil, fmt.Errorf("COVERAGE_BASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(raw string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		panic(fmt.Sprintf("invalid duration %q: %v", raw, err))
	}
	return d
}

func mustFloat(raw string) float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		panic(fmt.Sprintf("invalid number %q: %v", raw, err))
	}
	return f
}
