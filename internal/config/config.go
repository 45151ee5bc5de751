// Package config provides centralized configuration management for the
// service. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Analysis AnalysisConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// AllowedOrigins is a comma-separated list of CORS origins for the API (default: *)
	AllowedOrigins []string `env:"SERVER_ALLOWED_ORIGINS" default:"*"`
}

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	// Driver is the store backend: memory, sqlite, or postgres (default: memory)
	Driver string `env:"STORE_DRIVER" default:"memory"`

	// URL is the PostgreSQL connection string (required for the postgres driver)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Path is the SQLite database file for the sqlite driver (default: analyses.db)
	Path string `env:"SQLITE_PATH" default:"analyses.db"`

	// MaxConns is the maximum number of pooled postgres connections (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of pooled postgres connections (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a pooled connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// AnalysisConfig holds the profiling engine limits and content policy.
type AnalysisConfig struct {
	// MaxPayloadBytes caps the raw CSV size in bytes (default: 5 MiB)
	MaxPayloadBytes int64 `env:"ANALYSIS_MAX_PAYLOAD_BYTES" default:"5242880"`

	// MaxCellCount caps the projected cell count, data rows times columns (default: 1000000)
	MaxCellCount int `env:"ANALYSIS_MAX_CELL_COUNT" default:"1000000"`

	// ForbiddenContent rejects any submission containing this exact substring.
	// An empty value disables the check. (default: "Sonny Hayes")
	ForbiddenContent string `env:"ANALYSIS_FORBIDDEN_CONTENT" default:"Sonny Hayes"`
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
