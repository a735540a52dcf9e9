// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app assembles the auth components from configuration.

Both binaries share it: cmd/api builds the full HTTP stack, while cmd/authctl
only needs the Redis-backed pieces for operator tasks.
*/
package app

import (
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/swifttravel/internal/platform/config"
	"github.com/taibuivan/swifttravel/internal/platform/constants"
	"github.com/taibuivan/swifttravel/internal/platform/mail"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

// # Logging

// NewLogger returns the process logger: text in development, JSON elsewhere.
// Unknown LOG_LEVEL values fall back to info.
func NewLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, options)
	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, options)
	}

	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// # Delivery

// NewMailer selects the configured provider and wraps it with retries.
func NewMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	var transport mail.Mailer
	switch cfg.MailProvider {
	case config.MailProviderSMTP:
		transport = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	default:
		transport = mail.NewLogMailer(logger)
	}

	return mail.NewRetryMailer(transport, cfg.MailMaxRetries, logger)
}

// # Token Store Components

// Components are the auth building blocks that only need the Token Store.
type Components struct {
	Store       *auth.RedisTokenStore
	Limiter     *auth.RateLimiter
	Issuer      *auth.Issuer
	Revocations *auth.RevocationRegistry
}

// NewComponents builds the Redis-backed components.
func NewComponents(cfg *config.Config, client redis.UniversalClient, mailer mail.Mailer, opts ...auth.Option) *Components {
	store := auth.NewTokenStore(client)
	limiter := auth.NewRateLimiter(store, cfg.RateLimitPerWindow, cfg.RateLimitWindow(),
		cfg.RateLimitWindowMode == config.WindowModeRefresh)

	return &Components{
		Store:   store,
		Limiter: limiter,
		Issuer: auth.NewIssuer(store, limiter, mailer, auth.IssuerConfig{
			TokenTTL:    cfg.TokenTTL(),
			FrontendURL: cfg.FrontendURL,
			LinkPath:    cfg.MagicLinkPath,
		}, opts...),
		Revocations: auth.NewRevocationRegistry(store),
	}
}

// NewTokenService builds the session signer from configuration.
func NewTokenService(cfg *config.Config) (*sec.TokenService, error) {
	return sec.NewTokenService(cfg.SessionSecret, cfg.SessionIssuer)
}
