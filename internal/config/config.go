package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	// Dashboard settings
	BaseURL  string
	Email    string
	Password string

	// Local state
	SessionPath string
	CachePath   string

	// Request behavior
	UserTimezone   string
	RequestTimeout time.Duration
	MaxRetries     int
	TokenMaxAge    time.Duration

	// Inbox / resolution behavior
	ResolveConcurrency int
	MaxPages           int
	ThreadCacheTTL     time.Duration

	// AssignMarkerClass is the icon class that marks a thread as assignable.
	// Configurable because the dashboard's markup has drifted before.
	AssignMarkerClass string
	DefaultOwnerID    string

	LogLevel string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	cfg := &Config{
		BaseURL:  getEnv("DASHBOARD_BASE_URL", "https://dashboard.example-dashboard.com"),
		Email:    getEnv("DASHBOARD_EMAIL", ""),
		Password: getEnv("DASHBOARD_PASSWORD", ""),

		SessionPath: getEnv("SESSION_PATH", home+"/.videoteam_session.json"),
		CachePath:   getEnv("CACHE_PATH", home+"/.videoteam_cache.db"),

		UserTimezone:   getEnv("USER_TIMEZONE", "America/New_York"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		TokenMaxAge:    time.Duration(getEnvInt("TOKEN_MAX_AGE_SECONDS", 900)) * time.Second,

		ResolveConcurrency: getEnvInt("RESOLVE_CONCURRENCY", 5),
		MaxPages:           getEnvInt("MAX_PAGES", 5),
		ThreadCacheTTL:     time.Duration(getEnvInt("THREAD_CACHE_TTL_SECONDS", 120)) * time.Second,

		AssignMarkerClass: getEnv("ASSIGN_MARKER_CLASS", "fa-plus-circle"),
		DefaultOwnerID:    getEnv("DEFAULT_OWNER_ID", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("DASHBOARD_BASE_URL is required")
	}

	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("DASHBOARD_EMAIL and DASHBOARD_PASSWORD are required")
	}

	if c.SessionPath == "" {
		return fmt.Errorf("SESSION_PATH is required")
	}

	if c.CachePath == "" {
		return fmt.Errorf("CACHE_PATH is required")
	}

	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("MAX_RETRIES must be between 0 and 10")
	}

	if c.ResolveConcurrency < 1 || c.ResolveConcurrency > 10 {
		return fmt.Errorf("RESOLVE_CONCURRENCY must be between 1 and 10")
	}

	if c.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1")
	}

	if c.AssignMarkerClass == "" {
		return fmt.Errorf("ASSIGN_MARKER_CLASS cannot be empty")
	}

	return nil
}
