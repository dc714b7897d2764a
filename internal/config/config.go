// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Paste    PasteConfig
	Media    MediaConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 20s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"20s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// PasteConfig holds clipboard ingestion settings.
type PasteConfig struct {
	// MaxBytes is the largest accepted paste, text and html combined (default: 1MiB)
	MaxBytes int64 `env:"PASTE_MAX_BYTES" default:"1MiB" unit:"bytes"`

	// MaxContentBytes is the largest stored post content (default: 8MiB)
	MaxContentBytes int64 `env:"POST_MAX_CONTENT_BYTES" default:"8MiB" unit:"bytes"`

	// Placeholder fills the synthesized row of a table with no data (default: -)
	Placeholder string `env:"PASTE_PLACEHOLDER" default:"-"`

	// NormalizeUnicode applies NFC normalisation to pasted text (default: true)
	NormalizeUnicode bool `env:"PASTE_NORMALIZE_UNICODE" default:"true"`

	// MaxConcurrent is the maximum number of pastes processed in parallel (default: 16)
	MaxConcurrent int `env:"PASTE_MAX_CONCURRENT" default:"16"`

	// MaxWaitTime is how long a paste waits for a processing slot (default: 5s)
	MaxWaitTime time.Duration `env:"PASTE_MAX_WAIT_TIME" default:"5s"`
}

// MediaConfig holds URL classification settings.
type MediaConfig struct {
	// ImageHosts replaces the built-in image host allow-list when set
	ImageHosts []string `env:"MEDIA_IMAGE_HOSTS"`

	// YouTubeEmbedBase is the prefix of generated video embed URLs
	YouTubeEmbedBase string `env:"MEDIA_YOUTUBE_EMBED_BASE" default:"https://www.youtube.com/embed"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// PasteLimit is requests per minute for the paste endpoint (default: 60)
	PasteLimit int `env:"RATE_LIMIT_PASTE" default:"60"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey enables X-API-Key authentication on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
