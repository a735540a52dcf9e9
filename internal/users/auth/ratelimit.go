// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/constants"
)

// RateLimitResult is the outcome of one issuance attempt against the limiter.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
}

// RateLimiter bounds magic-link issuance per email address.
//
// The counter is checked and incremented atomically in the store, so two
// concurrent requests can never both take the last slot.
type RateLimiter struct {
	store      TokenStore
	limit      int
	window     time.Duration
	refreshTTL bool
}

// NewRateLimiter creates a limiter allowing limit requests per window.
// With refreshTTL every allowed request restarts the window; otherwise the
// window is anchored at the first request.
func NewRateLimiter(store TokenStore, limit int, window time.Duration, refreshTTL bool) *RateLimiter {
	return &RateLimiter{store: store, limit: limit, window: window, refreshTTL: refreshTTL}
}

// Window is the configured counter lifetime.
func (limiter *RateLimiter) Window() time.Duration {
	return limiter.window
}

/*
CheckAndIncrement consumes one issuance slot for email if any remain.

Description: A rejected request does not increment the counter. Store errors
are returned to the caller, which fails the request.

Returns:
  - RateLimitResult: Allowed and the slots left after this request
  - error: Store failures
*/
func (limiter *RateLimiter) CheckAndIncrement(ctx context.Context, email string) (RateLimitResult, error) {
	count, allowed, err := limiter.store.IncrementWithinLimit(ctx, rateLimitKey(email), limiter.limit, limiter.window, limiter.refreshTTL)
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("auth_rate_limit_check_failed: %w", err)
	}

	if !allowed {
		return RateLimitResult{Allowed: false, Remaining: 0}, nil
	}

	return RateLimitResult{Allowed: true, Remaining: max(limiter.limit-count, 0)}, nil
}

// Reset clears the counter for email.
func (limiter *RateLimiter) Reset(ctx context.Context, email string) error {
	if err := limiter.store.Delete(ctx, rateLimitKey(email)); err != nil {
		return fmt.Errorf("auth_rate_limit_reset_failed: %w", err)
	}
	return nil
}

func rateLimitKey(email string) string {
	return constants.RedisPrefixRateLimit + constants.RateLimitPurposeMagicLink + ":" + email
}
