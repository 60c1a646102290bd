// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the admin server will bind to.
	ServerHost string
	// ServerPort is the port number the admin server will listen on.
	ServerPort int
	// TLSCertFile is the path to the TLS certificate (empty disables TLS).
	TLSCertFile string
	// TLSKeyFile is the path to the TLS private key.
	TLSKeyFile string

	// DatabasePath is the path to the SQLite database file.
	DatabasePath string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// AdminSecret is the static shared secret for the admin HTTP surface.
	AdminSecret string

	// SigningSecret is the delegation token signing secret. Takes precedence
	// over SigningSecretFile when set.
	SigningSecret string
	// SigningSecretFile is the path to a file holding the signing secret.
	SigningSecretFile string

	// OIDCIssuerURL is the issuer URL for bearer token verification.
	OIDCIssuerURL string

	// RateLimitEnabled indicates whether rate limiting for admin endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per caller.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for admin endpoint rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// SyncEndpoint is the remote endpoint queued actions are delivered to.
	SyncEndpoint string
	// WorkerInterval is the tick interval of the delivery worker.
	WorkerInterval time.Duration
	// WorkerMaxAttempts is the number of delivery attempts before an item is
	// marked terminally failed. 1 preserves fail-on-first-error behavior.
	WorkerMaxAttempts int

	// AuditListLimit is the default number of audit records returned by the admin surface.
	AuditListLimit int

	// ShutdownTimeout bounds graceful shutdown of servers and the worker.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:  env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:  env.GetInt("SERVER_PORT", 9321),
		TLSCertFile: env.GetString("TLS_CERT_FILE", ""),
		TLSKeyFile:  env.GetString("TLS_KEY_FILE", ""),

		// Storage
		DatabasePath: env.GetString("DATABASE_PATH", "leasehold.db"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Admin authentication
		AdminSecret: env.GetString("ADMIN_API_TOKEN", ""),

		// Delegation token signing
		SigningSecret:     env.GetString("LEASE_SIGNING_SECRET", ""),
		SigningSecretFile: env.GetString("LEASE_SECRET_PATH", "lease_secret"),

		// OIDC
		OIDCIssuerURL: env.GetString("OIDC_ISSUER_URL", ""),

		// Rate Limiting
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "leasehold"),
		MetricsPort:      env.GetInt("METRICS_PORT", 9322),

		// Delivery worker
		SyncEndpoint:      env.GetString("SYNC_ENDPOINT", ""),
		WorkerInterval:    env.GetDuration("WORKER_INTERVAL_SECONDS", 3, time.Second),
		WorkerMaxAttempts: env.GetInt("WORKER_MAX_ATTEMPTS", 1),

		// Audit
		AuditListLimit: env.GetInt("AUDIT_LIST_LIMIT", 200),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 15, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
