// Package config loads oassync runtime settings from OASSYNC_* environment
// variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/erraggy/oassync"
)

// Defaults applied when a variable is unset or invalid.
const (
	DefaultCacheTTL       = 24 * time.Hour
	DefaultFetchTimeout   = 30 * time.Second
	DefaultFetchRetries   = 2
	DefaultLimit          = 50
	DefaultMaxLimit       = 500
	DefaultGraphCacheSize = 32
	DefaultGraphCacheTTL  = 15 * time.Minute
	DefaultLogLevel       = "info"
)

// Config holds every configurable oassync default.
type Config struct {
	// ProjectDir is the directory whose cache file is used when a request
	// does not name one. Defaults to the working directory.
	ProjectDir string

	// Cache and fetch settings.
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	FetchRetries int
	UserAgent    string

	// Pagination defaults for parse views.
	DefaultLimit int
	MaxLimit     int

	// Graph memoization.
	GraphCacheSize int
	GraphCacheTTL  time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from OASSYNC_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func Load() *Config {
	c := &Config{
		ProjectDir:     envString("OASSYNC_PROJECT_DIR", ""),
		CacheTTL:       envDuration("OASSYNC_CACHE_TTL", DefaultCacheTTL),
		FetchTimeout:   envDuration("OASSYNC_FETCH_TIMEOUT", DefaultFetchTimeout),
		FetchRetries:   envNonNegativeInt("OASSYNC_FETCH_RETRIES", DefaultFetchRetries),
		UserAgent:      envString("OASSYNC_USER_AGENT", oassync.UserAgent()),
		DefaultLimit:   envInt("OASSYNC_DEFAULT_LIMIT", DefaultLimit),
		MaxLimit:       envInt("OASSYNC_MAX_LIMIT", DefaultMaxLimit),
		GraphCacheSize: envInt("OASSYNC_GRAPH_CACHE_SIZE", DefaultGraphCacheSize),
		GraphCacheTTL:  envDuration("OASSYNC_GRAPH_CACHE_TTL", DefaultGraphCacheTTL),
		LogLevel:       envString("OASSYNC_LOG_LEVEL", DefaultLogLevel),
	}
	if c.ProjectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			c.ProjectDir = wd
		} else {
			c.ProjectDir = "."
		}
	}
	if c.DefaultLimit > c.MaxLimit {
		slog.Warn("default limit exceeds max limit, clamping", "default_limit", c.DefaultLimit, "max_limit", c.MaxLimit) //nolint:gosec // G706: values are structured log fields, not format strings
		c.DefaultLimit = c.MaxLimit
	}
	return c
}

func envString(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envNonNegativeInt is envInt that also accepts zero.
func envNonNegativeInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
