package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/teemow/geotodo/internal/googlemaps"
	"github.com/teemow/geotodo/internal/storage"
	"github.com/teemow/geotodo/internal/tasks"
	"github.com/teemow/geotodo/internal/toolclient"
)

// Config holds the runtime configuration.
type Config struct {
	// Endpoint is the base URL of the remote tool server
	Endpoint string

	// Transport selects how tools are invoked: "http" or "streamable" (default: http)
	Transport string

	// Timeout bounds a single tool call (default: 30s)
	Timeout time.Duration

	// RateLimit is the number of tool calls per second, 0 disables limiting (default: 5)
	RateLimit float64

	// RateBurst is the limiter burst size (default: 5)
	RateBurst int

	// Store selects the storage backend: "file", "sqlite" or "memory" (default: file)
	Store string

	// DataDir is where the file and sqlite backends keep their data
	DataDir string

	// StorageKey names the slot holding the task list (default: todos)
	StorageKey string

	// CacheSize is the number of cached search results, 0 disables the cache (default: 0)
	CacheSize int

	// CacheTTL is how long a search result stays cached (default: 5m)
	CacheTTL time.Duration
}

// DefaultConfig returns a Config with defaults taken from environment variables.
func DefaultConfig() Config {
	return Config{
		Endpoint:   getEnvOrDefault("GEOTODO_ENDPOINT", toolclient.DefaultBaseURL),
		Transport:  getEnvOrDefault("GEOTODO_TRANSPORT", toolclient.TransportHTTP),
		Timeout:    getEnvDurationOrDefault("GEOTODO_TIMEOUT", toolclient.DefaultTimeout),
		RateLimit:  getEnvFloatOrDefault("GEOTODO_RATE_LIMIT", toolclient.DefaultRateLimit),
		RateBurst:  getEnvIntOrDefault("GEOTODO_RATE_BURST", toolclient.DefaultRateBurst),
		Store:      getEnvOrDefault("GEOTODO_STORE", storage.BackendFile),
		DataDir:    getEnvOrDefault("GEOTODO_DATA_DIR", storage.DefaultDir()),
		StorageKey: getEnvOrDefault("GEOTODO_STORAGE_KEY", tasks.DefaultKey),
		CacheSize:  getEnvIntOrDefault("GEOTODO_CACHE_SIZE", 0),
		CacheTTL:   getEnvDurationOrDefault("GEOTODO_CACHE_TTL", googlemaps.DefaultCacheTTL),
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		return fmt.Errorf("endpoint %q must be an http or https URL", c.Endpoint)
	}

	validTransports := map[string]bool{toolclient.TransportHTTP: true, toolclient.TransportStreamable: true}
	if !validTransports[c.Transport] {
		return fmt.Errorf("invalid transport %q, must be one of: http, streamable", c.Transport)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, got %f", c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate burst must be at least 1 when rate limiting is enabled, got %d", c.RateBurst)
	}

	validStores := map[string]bool{storage.BackendFile: true, storage.BackendSQLite: true, storage.BackendMemory: true}
	if !validStores[c.Store] {
		return fmt.Errorf("invalid store %q, must be one of: file, sqlite, memory", c.Store)
	}
	if c.Store != storage.BackendMemory && c.DataDir == "" {
		return fmt.Errorf("data directory is required for the %s store", c.Store)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return fmt.Errorf("storage key must not be empty")
	}

	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", c.CacheSize)
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when caching is enabled, got %s", c.CacheTTL)
	}

	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns the int value of an environment variable or a default value.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvFloatOrDefault returns the float64 value of an environment variable or a default value.
func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

// getEnvDurationOrDefault returns the duration value of an environment variable or a default value.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
