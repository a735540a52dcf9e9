// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Swift Travel auth HTTP server.
//
// # Startup Sequence
//
//  1. Load configuration from environment variables (and .env in development).
//  2. Initialize the structured logger and tracing.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Wire the auth components and HTTP handlers.
//  6. Start the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/swifttravel/internal/api"
	"github.com/taibuivan/swifttravel/internal/app"
	"github.com/taibuivan/swifttravel/internal/platform/config"
	"github.com/taibuivan/swifttravel/internal/platform/constants"
	"github.com/taibuivan/swifttravel/internal/platform/metrics"
	"github.com/taibuivan/swifttravel/internal/platform/migration"
	pgstore "github.com/taibuivan/swifttravel/internal/platform/postgres"
	redisstore "github.com/taibuivan/swifttravel/internal/platform/redis"
	"github.com/taibuivan/swifttravel/internal/platform/telemetry"
	"github.com/taibuivan/swifttravel/internal/users/account"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

func main() {
	// 1. Configuration. Until it is loaded, failures go to a bootstrap JSON logger.
	bootLog := slog.New(slog.NewJSONHandler(os.Stderr, nil)).With(slog.String("app", constants.AppName))

	cfg, err := config.Load()
	must(bootLog, err, "load configuration")

	// 2. Logger and tracing
	log := app.NewLogger(cfg)
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("mail_provider", cfg.MailProvider),
		slog.String("rate_limit_window_mode", cfg.RateLimitWindowMode),
	)

	// The root context is cancelled on SIGINT/SIGTERM and stops background workers.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(rootCtx, cfg.ServiceName, cfg.OTLPEndpoint, log)
	must(log, err, "initialize tracing")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, constants.StartupTimeout)
	defer startupCancel()

	// 3. PostgreSQL
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// 4. Migrations
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// 5. Domain wiring
	authMetrics := metrics.New()
	authOptions := []auth.Option{auth.WithMetrics(authMetrics)}

	tokens, err := app.NewTokenService(cfg)
	must(log, err, "initialize session signer")

	components := app.NewComponents(cfg, rdb, app.NewMailer(cfg, log), authOptions...)
	users := auth.NewUserRepository(pool)
	verifier := auth.NewVerifier(components.Store, users, tokens, cfg.SessionTTL(), authOptions...)
	sessions := auth.NewSessionValidator(tokens, components.Revocations, cfg.RevocationFailOpen, authOptions...)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	})

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   authMetrics.Handler(),
		Auth:      auth.NewHandler(components.Issuer, verifier, sessions, cfg.VerifyRateLimitPerMinute),
		Account:   account.NewHandler(account.NewService(users)),
	}

	// 6. HTTP server and graceful shutdown
	server := api.NewServer(rootCtx, cfg, log, handlers)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
