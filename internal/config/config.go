package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime settings read from the environment. Every field
// has a default so the server starts with no configuration at all.
type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string

	// DataDir is the directory holding the JSON data files and the
	// request log database.
	DataDir string

	// SessionSecret signs session cookies. Override it in production.
	SessionSecret string

	// SessionMaxAge is how long an authenticated session stays valid.
	SessionMaxAge time.Duration

	// CORSOrigin is the origin allowed to call the API with credentials,
	// typically the Vite dev server during frontend development.
	CORSOrigin string

	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string
}

// DefaultSessionSecret is used when SESSION_SECRET is not set. The
// server logs a warning when it falls back to it.
const DefaultSessionSecret = "llm-api-chat-secret"

// Load reads configuration from environment variables, falling back to
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Addr:          env("ADDR", ":3001"),
		DataDir:       env("DATA_DIR", "."),
		SessionSecret: env("SESSION_SECRET", DefaultSessionSecret),
		SessionMaxAge: envDuration("SESSION_MAX_AGE", 24*time.Hour),
		CORSOrigin:    env("CORS_ORIGIN", "http://localhost:5173"),
		LogLevel:      env("LOG_LEVEL", "info"),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}
