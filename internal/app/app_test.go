// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/app"
	"github.com/taibuivan/swifttravel/internal/platform/config"
	"github.com/taibuivan/swifttravel/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:            "test",
		LogLevel:               "debug",
		SessionSecret:          "0123456789abcdef0123456789abcdef",
		SessionIssuer:          "swifttravel.test",
		TokenExpirationMinutes: 15,
		FrontendURL:            "https://app.swifttravel.test",
		MagicLinkPath:          "/auth/verify",
		RateLimitPerWindow:     2,
		RateLimitWindowMinutes: 15,
		RateLimitWindowMode:    config.WindowModeFixed,
		MailProvider:           config.MailProviderLog,
	}
}

/*
TestNewComponents wires the limiter and issuer to the configured Token Store.
*/
func TestNewComponents(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := testConfig()
	mailer := &testutil.RecordingMailer{}
	components := app.NewComponents(cfg, client, mailer)
	ctx := context.Background()

	require.NoError(t, components.Issuer.Issue(ctx, "a@example.com"))
	require.NoError(t, components.Issuer.Issue(ctx, "a@example.com"))
	assert.Error(t, components.Issuer.Issue(ctx, "a@example.com"))

	token := mailer.LastToken()
	assert.Equal(t, 15*time.Minute, server.TTL("magic_link:"+token))
	assert.Equal(t, 15*time.Minute, server.TTL("rate_limit:magic_link:a@example.com"))

	require.NoError(t, components.Limiter.Reset(ctx, "a@example.com"))
	assert.NoError(t, components.Issuer.Issue(ctx, "a@example.com"))
}

/*
TestNewTokenService signs with the configured issuer.
*/
func TestNewTokenService(t *testing.T) {
	tokens, err := app.NewTokenService(testConfig())
	require.NoError(t, err)

	minted, err := tokens.Mint("user-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	claims, err := tokens.Verify(minted.Token)
	require.NoError(t, err)
	assert.Equal(t, "swifttravel.test", claims.Issuer)
}

/*
TestNewMailer wraps the log provider by default.
*/
func TestNewMailer(t *testing.T) {
	cfg := testConfig()
	logger := app.NewLogger(cfg)

	assert.NotNil(t, logger)
	assert.NotNil(t, app.NewMailer(cfg, logger))
}
