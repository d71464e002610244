// Package config provides centralized configuration management for the application.
// It loads configuration from an optional YAML file and environment variables
// with sensible defaults, and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig    `yaml:"server"`
	Data     DataConfig      `yaml:"data"`
	Session  SessionConfig   `yaml:"session"`
	Rate     RateLimitConfig `yaml:"rate"`
	Security SecurityConfig  `yaml:"security"`
	Logging  LoggingConfig   `yaml:"logging"`
	Scrape   ScrapeConfig    `yaml:"scrape"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `yaml:"host" env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `yaml:"port" env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 15s)
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"15s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DataConfig holds settings for the map data file.
type DataConfig struct {
	// Source is a file path or http(s) URL of the map data CSV.
	// Supports both DATA_SOURCE and DATA_FILE env vars.
	Source string `yaml:"source" env:"DATA_SOURCE" envAlt:"DATA_FILE" default:"poedb-map-guild-character-list.csv"`

	// MaxBytes caps the size of the data file (default: 1MB)
	MaxBytes int64 `yaml:"max_bytes" env:"DATA_MAX_BYTES" default:"1048576"`

	// LoadTimeout bounds the one startup load (default: 30s)
	LoadTimeout time.Duration `yaml:"load_timeout" env:"DATA_LOAD_TIMEOUT" default:"30s"`

	// UserAgent is sent when Source is a URL
	UserAgent string `yaml:"user_agent" env:"DATA_USER_AGENT" default:"Mozilla/5.0 (GuildTagHelper/1.0)"`
}

// SessionConfig holds settings for in-memory lookup sessions.
type SessionConfig struct {
	// CookieName names the session cookie (default: guildtag_session)
	CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME" default:"guildtag_session"`

	// IdleTimeout drops sessions unused for this long (default: 30m)
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"SESSION_IDLE_TIMEOUT" default:"30m"`

	// MaxSessions caps live sessions; the least recently used is evicted (default: 10000)
	MaxSessions int `yaml:"max_sessions" env:"SESSION_MAX" default:"10000"`

	// SecureCookie sets the Secure flag on the session cookie (default: false)
	SecureCookie bool `yaml:"secure_cookie" env:"SESSION_SECURE_COOKIE" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `yaml:"enabled" env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 300)
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `yaml:"enable_csp" env:"SECURITY_ENABLE_CSP" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `yaml:"level" env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `yaml:"format" env:"LOG_FORMAT" default:"text"`
}

// ScrapeConfig holds settings for regenerating the data file from PoEDB.
type ScrapeConfig struct {
	// URL is the PoEDB maps page
	URL string `yaml:"url" env:"SCRAPE_URL" default:"https://poedb.tw/us/Maps#MapsItem"`

	// Output is where the generated CSV is written
	Output string `yaml:"output" env:"SCRAPE_OUTPUT" default:"poedb-map-guild-character-list.csv"`

	// Timeout bounds the page download (default: 30s)
	Timeout time.Duration `yaml:"timeout" env:"SCRAPE_TIMEOUT" default:"30s"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
