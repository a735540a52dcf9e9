// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command authctl performs operator tasks against the auth stores: schema
// migrations, manual session revocation, link issuance and rate-limit resets.
//
// It reads the same environment as cmd/api.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/swifttravel/internal/app"
	"github.com/taibuivan/swifttravel/internal/platform/config"
	"github.com/taibuivan/swifttravel/internal/platform/migration"
	redisstore "github.com/taibuivan/swifttravel/internal/platform/redis"
	"github.com/taibuivan/swifttravel/pkg/emailaddr"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authctl",
		Short:         "Operator utility for the Swift Travel auth service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newRevokeCommand())
	cmd.AddCommand(newIssueLinkCommand())
	cmd.AddCommand(newResetLimitCommand())
	return cmd
}

// environment loads configuration and the matching logger.
func environment() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLogger(cfg), nil
}

// withComponents connects to Redis and hands the Token Store components to fn.
func withComponents(cmd *cobra.Command, fn func(ctx context.Context, components *app.Components) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, logger, err := environment()
	if err != nil {
		return err
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	return fn(ctx, app.NewComponents(cfg, client, app.NewMailer(cfg, logger)))
}

// # Migrations

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := environment()
			if err != nil {
				return err
			}
			return migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, logger)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := environment()
			if err != nil {
				return err
			}
			return migration.RunDown(cfg.DatabaseURL, cfg.MigrationPath, steps, logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

// # Sessions

func newRevokeCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revoke a session by its token identifier (jti)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, func(ctx context.Context, components *app.Components) error {
				if err := components.Revocations.Revoke(ctx, args[0], ttl); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked %s for %s\n", args[0], ttl)
				return nil
			})
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "How long to keep the revocation marker (the token's remaining lifetime)")
	return cmd
}

// # Magic Links

func newIssueLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "issue-link <email>",
		Short: "Send a magic link, subject to the normal rate limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, func(ctx context.Context, components *app.Components) error {
				if err := components.Issuer.Issue(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "magic link sent to %s\n", emailaddr.Normalize(args[0]))
				return nil
			})
		},
	}
}

func newResetLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-limit <email>",
		Short: "Clear the magic-link rate-limit counter for an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, func(ctx context.Context, components *app.Components) error {
				email := emailaddr.Normalize(args[0])
				if err := components.Limiter.Reset(ctx, email); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rate limit cleared for %s\n", email)
				return nil
			})
		},
	}
}
