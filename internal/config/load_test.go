package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "http://119.45.124.222:8080", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "http://119.45.124.222:8080", cfg.Media.Host)
	assert.Equal(t, time.Second, cfg.Poll.Interval)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORYVIDEO_BACKEND_BASE_URL", "http://localhost:9090")
	t.Setenv("STORYVIDEO_MEDIA_HOST", "http://localhost:9090")
	t.Setenv("STORYVIDEO_POLL_INTERVAL", "250ms")
	t.Setenv("STORYVIDEO_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9090", cfg.Backend.BaseURL)
	assert.Equal(t, "http://localhost:9090", cfg.Media.Host)
	assert.Equal(t, 250*time.Millisecond, cfg.Poll.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	t.Setenv("STORYVIDEO_BACKEND_BASE_URL", "not-a-url")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("STORYVIDEO_LOG_LEVEL", "verbose")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
