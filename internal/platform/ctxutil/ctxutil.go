// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/swifttravel/internal/platform/ctxkey"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Error Verbosity

// WithDebugErrors marks the context so error envelopes carry the raw cause.
func WithDebugErrors(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, ctxkey.KeyDebugErrors, enabled)
}

// DebugErrors reports whether raw error detail may be returned to the client.
func DebugErrors(ctx context.Context) bool {
	enabled, _ := ctx.Value(ctxkey.KeyDebugErrors).(bool)
	return enabled
}

// # Identity & Access

// WithAuth returns a new context with the validated session attached.
func WithAuth(ctx context.Context, auth *sec.AuthContext) context.Context {
	return context.WithValue(ctx, ctxkey.KeyAuth, auth)
}

// GetAuth retrieves the [*sec.AuthContext] from the [context.Context].
func GetAuth(ctx context.Context) *sec.AuthContext {
	auth, ok := ctx.Value(ctxkey.KeyAuth).(*sec.AuthContext)
	if !ok {
		return nil
	}
	return auth
}
