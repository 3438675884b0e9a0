package config

import (
	"os"
	"testing"
	"time"

	"github.com/erraggy/oassync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearOASSYNCEnv clears all OASSYNC_* env vars to isolate tests from the ambient environment.
func clearOASSYNCEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OASSYNC_PROJECT_DIR", "OASSYNC_CACHE_TTL",
		"OASSYNC_FETCH_TIMEOUT", "OASSYNC_FETCH_RETRIES",
		"OASSYNC_USER_AGENT", "OASSYNC_DEFAULT_LIMIT", "OASSYNC_MAX_LIMIT",
		"OASSYNC_GRAPH_CACHE_SIZE", "OASSYNC_GRAPH_CACHE_TTL",
		"OASSYNC_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearOASSYNCEnv(t)

	c := Load()

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, c.ProjectDir)
	assert.Equal(t, 24*time.Hour, c.CacheTTL)
	assert.Equal(t, 30*time.Second, c.FetchTimeout)
	assert.Equal(t, 2, c.FetchRetries)
	assert.Equal(t, oassync.UserAgent(), c.UserAgent)
	assert.Equal(t, 50, c.DefaultLimit)
	assert.Equal(t, 500, c.MaxLimit)
	assert.Equal(t, 32, c.GraphCacheSize)
	assert.Equal(t, 15*time.Minute, c.GraphCacheTTL)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearOASSYNCEnv(t)
	dir := t.TempDir()
	t.Setenv("OASSYNC_PROJECT_DIR", dir)
	t.Setenv("OASSYNC_CACHE_TTL", "1h")
	t.Setenv("OASSYNC_FETCH_TIMEOUT", "5s")
	t.Setenv("OASSYNC_FETCH_RETRIES", "0")
	t.Setenv("OASSYNC_USER_AGENT", "custom/1.0")
	t.Setenv("OASSYNC_DEFAULT_LIMIT", "20")
	t.Setenv("OASSYNC_MAX_LIMIT", "100")
	t.Setenv("OASSYNC_GRAPH_CACHE_SIZE", "4")
	t.Setenv("OASSYNC_GRAPH_CACHE_TTL", "1m")
	t.Setenv("OASSYNC_LOG_LEVEL", "debug")

	c := Load()

	assert.Equal(t, dir, c.ProjectDir)
	assert.Equal(t, time.Hour, c.CacheTTL)
	assert.Equal(t, 5*time.Second, c.FetchTimeout)
	assert.Equal(t, 0, c.FetchRetries)
	assert.Equal(t, "custom/1.0", c.UserAgent)
	assert.Equal(t, 20, c.DefaultLimit)
	assert.Equal(t, 100, c.MaxLimit)
	assert.Equal(t, 4, c.GraphCacheSize)
	assert.Equal(t, time.Minute, c.GraphCacheTTL)
	assert.Equal(t, "debug", c.LogLevel)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearOASSYNCEnv(t)
	t.Setenv("OASSYNC_CACHE_TTL", "forever")
	t.Setenv("OASSYNC_FETCH_TIMEOUT", "-3s")
	t.Setenv("OASSYNC_FETCH_RETRIES", "-1")
	t.Setenv("OASSYNC_DEFAULT_LIMIT", "zero")
	t.Setenv("OASSYNC_GRAPH_CACHE_SIZE", "0")

	c := Load()

	assert.Equal(t, DefaultCacheTTL, c.CacheTTL)
	assert.Equal(t, DefaultFetchTimeout, c.FetchTimeout)
	assert.Equal(t, DefaultFetchRetries, c.FetchRetries)
	assert.Equal(t, DefaultLimit, c.DefaultLimit)
	assert.Equal(t, DefaultGraphCacheSize, c.GraphCacheSize)
}

func TestLoad_DefaultLimitClampedToMax(t *testing.T) {
	clearOASSYNCEnv(t)
	t.Setenv("OASSYNC_DEFAULT_LIMIT", "900")

	c := Load()

	assert.Equal(t, 500, c.DefaultLimit)
}
