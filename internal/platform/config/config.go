// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first through 'joho/godotenv' when present.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Enumerations

const (
	// WindowModeRefresh resets the rate-limit TTL on every allowed request.
	WindowModeRefresh = "refresh"
	// WindowModeFixed anchors the rate-limit TTL at the first request of the window.
	WindowModeFixed = "fixed"

	MailProviderLog  = "log"
	MailProviderSMTP = "smtp"
)

// minSecretLength is the minimum HMAC key size accepted for session signing.
const minSecretLength = 32

// # Configuration Schema

// Config holds all runtime configuration for the Swift Travel auth API.
type Config struct {

	// Server settings
	ServerPort  string `env:"PORT"        envDefault:"8080"`
	Environment string `env:"APP_ENV"     envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL"   envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"swifttravel-auth"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATIONS_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Session signing
	SessionSecret          string `env:"SESSION_SECRET,required,notEmpty"`
	SessionIssuer          string `env:"SESSION_ISSUER"           envDefault:"swifttravel.app"`
	SessionExpirationHours int    `env:"SESSION_EXPIRATION_HOURS" envDefault:"24"`

	// Magic links
	TokenExpirationMinutes int    `env:"TOKEN_EXPIRATION_MINUTES" envDefault:"15"`
	FrontendURL            string `env:"FRONTEND_URL"             envDefault:"http://localhost:3000"`
	MagicLinkPath          string `env:"MAGIC_LINK_PATH"          envDefault:"/auth/verify"`

	// Per-email issuance limiting
	RateLimitPerWindow       int    `env:"RATE_LIMIT_PER_WINDOW"        envDefault:"5"`
	RateLimitWindowMinutes   int    `env:"RATE_LIMIT_WINDOW_MINUTES"    envDefault:"15"`
	RateLimitWindowMode      string `env:"RATE_LIMIT_WINDOW_MODE"       envDefault:"refresh"`
	RevocationFailOpen       bool   `env:"REVOCATION_FAIL_OPEN"         envDefault:"true"`
	VerifyRateLimitPerMinute int    `env:"VERIFY_RATE_LIMIT_PER_MINUTE" envDefault:"30"`

	// Per-IP global throttling
	GlobalRateLimitRPS   float64 `env:"GLOBAL_RATE_LIMIT_RPS"   envDefault:"100"`
	GlobalRateLimitBurst int     `env:"GLOBAL_RATE_LIMIT_BURST" envDefault:"150"`

	// Cross-Origin Resource Sharing
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Email delivery
	MailProvider   string `env:"MAIL_PROVIDER"    envDefault:"log"`
	MailMaxRetries uint64 `env:"MAIL_MAX_RETRIES" envDefault:"3"`
	SMTPHost       string `env:"SMTP_HOST"`
	SMTPPort       int    `env:"SMTP_PORT"        envDefault:"587"`
	SMTPUsername   string `env:"SMTP_USERNAME"`
	SMTPPassword   string `env:"SMTP_PASSWORD"`
	SMTPFrom       string `env:"SMTP_FROM"        envDefault:"Swift Travel <no-reply@swifttravel.app>"`

	// Tracing. An empty endpoint disables the exporter.
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// # Configuration Loading

// Load reads an optional .env file, then parses environment variables into a [Config].
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current environment onto a [Config] and validates it.
func Parse() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var problems []string

	if len(c.SessionSecret) < minSecretLength {
		problems = append(problems, fmt.Sprintf("SESSION_SECRET must be at least %d bytes", minSecretLength))
	}
	if c.SessionExpirationHours <= 0 {
		problems = append(problems, "SESSION_EXPIRATION_HOURS must be positive")
	}
	if c.TokenExpirationMinutes <= 0 {
		problems = append(problems, "TOKEN_EXPIRATION_MINUTES must be positive")
	}
	if c.RateLimitPerWindow <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_WINDOW must be positive")
	}
	if c.RateLimitWindowMinutes <= 0 {
		problems = append(problems, "RATE_LIMIT_WINDOW_MINUTES must be positive")
	}
	if c.RateLimitWindowMode != WindowModeRefresh && c.RateLimitWindowMode != WindowModeFixed {
		problems = append(problems, "RATE_LIMIT_WINDOW_MODE must be 'refresh' or 'fixed'")
	}
	switch c.MailProvider {
	case MailProviderLog:
	case MailProviderSMTP:
		if c.SMTPHost == "" {
			problems = append(problems, "SMTP_HOST is required when MAIL_PROVIDER=smtp")
		}
	default:
		problems = append(problems, "MAIL_PROVIDER must be 'log' or 'smtp'")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// # Derived Values

// TokenTTL is the lifetime of a magic-link token.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpirationMinutes) * time.Minute
}

// SessionTTL is the lifetime of a session token.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionExpirationHours) * time.Hour
}

// RateLimitWindow is the per-email issuance window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMinutes) * time.Minute
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
