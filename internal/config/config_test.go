package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.BaseURL)
	assert.Equal(t, "America/New_York", cfg.UserTimezone)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.TokenMaxAge)
	assert.Equal(t, 5, cfg.ResolveConcurrency)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 2*time.Minute, cfg.ThreadCacheTTL)
	assert.Equal(t, "fa-plus-circle", cfg.AssignMarkerClass)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Contains(t, cfg.SessionPath, ".videoteam_session.json")
	assert.Contains(t, cfg.CachePath, ".videoteam_cache.db")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_BASE_URL", "https://staging.example.com")
	t.Setenv("MAX_RETRIES", "1")
	t.Setenv("TOKEN_MAX_AGE_SECONDS", "60")
	t.Setenv("ASSIGN_MARKER_CLASS", "fa-user-plus")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.BaseURL)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.TokenMaxAge)
	assert.Equal(t, "fa-user-plus", cfg.AssignMarkerClass)
}

func TestLoadConfigIgnoresMalformedInt(t *testing.T) {
	t.Setenv("MAX_RETRIES", "lots")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL:            "https://dashboard.example.com",
			Email:              "ops@example.com",
			Password:           "secret",
			SessionPath:        "/tmp/session.json",
			CachePath:          "/tmp/cache.db",
			MaxRetries:         3,
			ResolveConcurrency: 5,
			MaxPages:           5,
			AssignMarkerClass:  "fa-plus-circle",
		}
	}

	require.NoError(t, valid().Validate())

	noCreds := valid()
	noCreds.Email = ""
	assert.Error(t, noCreds.Validate())

	badRetries := valid()
	badRetries.MaxRetries = 11
	assert.Error(t, badRetries.Validate())

	badConcurrency := valid()
	badConcurrency.ResolveConcurrency = 0
	assert.Error(t, badConcurrency.Validate())

	noMarker := valid()
	noMarker.AssignMarkerClass = ""
	assert.Error(t, noMarker.Validate())
}
