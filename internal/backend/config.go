package backend

import (
	"os"
	"strings"
	"time"
)

// Config holds backend connection settings.
type Config struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// ProbeMaxWait bounds the reachability probe as a whole.
	ProbeMaxWait time.Duration

	// ProbeInterval is the wait between reachability polls.
	ProbeInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a locally
// running backend.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "http://localhost:8080/api",
		Timeout:       10 * time.Second,
		ProbeMaxWait:  30 * time.Second,
		ProbeInterval: 2 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or malformed values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if u := os.Getenv("TYPEDRILL_BACKEND_URL"); u != "" {
		cfg.BaseURL = strings.TrimRight(u, "/")
	}
	if d, err := time.ParseDuration(os.Getenv("TYPEDRILL_HTTP_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	if d, err := time.ParseDuration(os.Getenv("TYPEDRILL_PROBE_MAX_WAIT")); err == nil && d > 0 {
		cfg.ProbeMaxWait = d
	}
	if d, err := time.ParseDuration(os.Getenv("TYPEDRILL_PROBE_INTERVAL")); err == nil && d > 0 {
		cfg.ProbeInterval = d
	}

	return cfg
}
