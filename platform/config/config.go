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

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// RedisConfig provides settings for the redis-backed cache and task queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// GeocoderConfig provides settings for the geocoding client.
type GeocoderConfig interface {
	GetGoogleAPIKey() string
	GetOutboundTimeout() time.Duration
}

// ProviderConfig provides settings for the place-search provider adapters.
type ProviderConfig interface {
	GetGoogleAPIKey() string
	GetYelpAPIKey() string
	GetFacebookAccessToken() string
	GetOutboundTimeout() time.Duration
	GetProviderCacheTTL() time.Duration
}

// SearchConfig provides settings for the search fan-out.
type SearchConfig interface {
	GetSearchBatchSize() int
	GetMaxPostalCodes() int
}

// SeederConfig provides settings for the background seeding pipeline.
type SeederConfig interface {
	RedisConfig
	GetSeedCacheTTL() time.Duration
	GetSeedRatePerSecond() float64
	GetSeedCities() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	DatabaseURL         string
	RedisURL            string
	RedisTLSInsecure    bool
	AsynqQueueName      string
	AsynqConcurrency    int
	CORSAllowAll        bool
	CORSOrigins         []string
	GoogleAPIKey        string
	YelpAPIKey          string
	FacebookAccessToken string
	OutboundTimeout     time.Duration
	ProviderCacheTTL    time.Duration
	SeedCacheTTL        time.Duration
	SeedRatePerSecond   float64
	SeedCities          []string
	SearchBatchSize     int
	MaxPostalCodes      int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// GeocoderConfig / ProviderConfig implementation
func (c *Config) GetGoogleAPIKey() string           { return c.GoogleAPIKey }
func (c *Config) GetYelpAPIKey() string             { return c.YelpAPIKey }
func (c *Config) GetFacebookAccessToken() string    { return c.FacebookAccessToken }
func (c *Config) GetOutboundTimeout() time.Duration { return c.OutboundTimeout }
func (c *Config) GetProviderCacheTTL() time.Duration {
	return c.ProviderCacheTTL
}

// SearchConfig implementation
func (c *Config) GetSearchBatchSize() int { return c.SearchBatchSize }
func (c *Config) GetMaxPostalCodes() int  { return c.MaxPostalCodes }

// SeederConfig implementation
func (c *Config) GetSeedCacheTTL() time.Duration  { return c.SeedCacheTTL }
func (c *Config) GetSeedRatePerSecond() float64   { return c.SeedRatePerSecond }
func (c *Config) GetSeedCities() []string         { return c.SeedCities }

// Load reads configuration from environment variables.
//
// Provider credentials are optional on purpose: a missing key degrades that
// provider to zero results instead of failing startup (soft-failure policy).
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:      getEnv("ASYNQ_QUEUE_NAME", "seeding"),
		AsynqConcurrency:    mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		GoogleAPIKey:        getEnv("GOOGLE_PLACES_API_KEY", ""),
		YelpAPIKey:          getEnv("YELP_API_KEY", ""),
		FacebookAccessToken: getEnv("FACEBOOK_ACCESS_TOKEN", ""),
		OutboundTimeout:     mustDuration(getEnv("OUTBOUND_TIMEOUT", "10s")),
		ProviderCacheTTL:    mustDuration(getEnv("PROVIDER_CACHE_TTL", "336h")),
		SeedCacheTTL:        mustDuration(getEnv("SEED_CACHE_TTL", "24h")),
		SeedRatePerSecond:   mustFloat(getEnv("SEED_RATE_PER_SECOND", "1")),
		SeedCities:          splitCSV(getEnv("SEED_CITIES", "New York,Los Angeles,Chicago")),
		SearchBatchSize:     mustInt(getEnv("SEARCH_BATCH_SIZE", "3")),
		MaxPostalCodes:      mustInt(getEnv("MAX_POSTAL_CODES", "8")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.SearchBatchSize < 1 {
		return nil, fmt.Errorf("SEARCH_BATCH_SIZE must be at least 1")
	}
	if cfg.MaxPostalCodes < 1 {
		return nil, fmt.Errorf("MAX_POSTAL_CODES must be at least 1")
	}
	if cfg.OutboundTimeout <= 0 {
		return nil, fmt.Errorf("OUTBOUND_TIMEOUT must be a positive duration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
