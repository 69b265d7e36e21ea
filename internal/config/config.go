// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	View     ViewConfig
	Export   ExportConfig
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

	// WriteTimeout is the maximum duration for writing a response (default: 2m)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds the optional PostgreSQL source.
// When URL is empty no tables are loaded.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Tables lists the tables to expose as datasets: "orders,public.customers"
	Tables []string `env:"DB_TABLES"`

	// MaxRows caps rows read per table (default: 50000)
	MaxRows int `env:"DB_MAX_ROWS" default:"50000"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// LoadTimeout bounds the startup load of all tables (default: 2m)
	LoadTimeout time.Duration `env:"DB_LOAD_TIMEOUT" default:"2m"`
}

// Enabled reports whether a database source is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// DataConfig holds file dataset settings.
type DataConfig struct {
	// Dir is scanned for .csv, .tsv, .yaml and .yml files at startup (default: data)
	Dir string `env:"DATA_DIR" default:"data"`

	// MaxFileSize is the per-file size budget in bytes (default: 100MB)
	MaxFileSize int64 `env:"DATA_MAX_FILE_SIZE" default:"104857600"`
}

// ViewConfig holds defaults for new view sessions.
type ViewConfig struct {
	// PageSize is the initial rows per page (default: 25)
	PageSize int `env:"VIEW_PAGE_SIZE" default:"25"`

	// MultiSelect allows selecting more than one row (default: true)
	MultiSelect bool `env:"VIEW_MULTI_SELECT" default:"true"`

	// SingleExpand keeps at most one row expanded (default: false)
	SingleExpand bool `env:"VIEW_SINGLE_EXPAND" default:"false"`

	// Locale is the BCP 47 tag used to collate strings (default: en)
	Locale string `env:"VIEW_LOCALE" default:"en"`

	// ParallelThreshold is the row count at which filtering fans out (default: 20000)
	ParallelThreshold int `env:"VIEW_PARALLEL_THRESHOLD" default:"20000"`

	// SessionTTL evicts views idle for longer than this (default: 30m)
	SessionTTL time.Duration `env:"VIEW_SESSION_TTL" default:"30m"`

	// MaxSessions caps concurrently open views (default: 1000)
	MaxSessions int `env:"VIEW_MAX_SESSIONS" default:"1000"`
}

// ExportConfig holds CSV export settings.
type ExportConfig struct {
	// Delimiter is the single field separator character (default: ,)
	Delimiter string `env:"EXPORT_DELIMITER" default:","`

	// UseCRLF terminates records with \r\n (default: false)
	UseCRLF bool `env:"EXPORT_USE_CRLF" default:"false"`

	// MaxConcurrent is the maximum number of parallel exports (default: 5)
	MaxConcurrent int `env:"EXPORT_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an export slot (default: 10s)
	MaxWaitTime time.Duration `env:"EXPORT_MAX_WAIT_TIME" default:"10s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`

	// ExportLimit is requests per minute for the export endpoint (default: 10)
	ExportLimit int `env:"RATE_LIMIT_EXPORT" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey rejects /api requests without a valid X-API-Key (default: false)
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
