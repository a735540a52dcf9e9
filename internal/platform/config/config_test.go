// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/platform/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/swift")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)
}

/*
TestParse_Defaults verifies the documented defaults are applied.
*/
func TestParse_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Parse()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.TokenTTL())
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL())
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow())
	assert.Equal(t, 5, cfg.RateLimitPerWindow)
	assert.Equal(t, config.WindowModeRefresh, cfg.RateLimitWindowMode)
	assert.True(t, cfg.RevocationFailOpen)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, config.MailProviderLog, cfg.MailProvider)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

/*
TestParse_Invalid covers cross-field validation failures.
*/
func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		message string
	}{
		{"short_secret", "SESSION_SECRET", "short", "SESSION_SECRET"},
		{"zero_session_hours", "SESSION_EXPIRATION_HOURS", "0", "SESSION_EXPIRATION_HOURS"},
		{"negative_token_minutes", "TOKEN_EXPIRATION_MINUTES", "-1", "TOKEN_EXPIRATION_MINUTES"},
		{"unknown_window_mode", "RATE_LIMIT_WINDOW_MODE", "sliding", "RATE_LIMIT_WINDOW_MODE"},
		{"smtp_without_host", "MAIL_PROVIDER", "smtp", "SMTP_HOST"},
		{"unknown_provider", "MAIL_PROVIDER", "carrier-pigeon", "MAIL_PROVIDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := config.Parse()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.message), err.Error())
		})
	}
}

/*
TestParse_MissingRequired fails fast when a required variable is absent.
*/
func TestParse_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SESSION_SECRET", testSecret)

	_, err := config.Parse()
	require.Error(t, err)
}
