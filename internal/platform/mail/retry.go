// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

// RetryMailer retries transient delivery failures with exponential backoff.
// Invalid messages are not retried.
type RetryMailer struct {
	next       Mailer
	maxRetries uint64
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryMailer wraps next with up to maxRetries additional attempts.
func NewRetryMailer(next Mailer, maxRetries uint64, logger *slog.Logger) *RetryMailer {
	return &RetryMailer{next: next, maxRetries: maxRetries, baseDelay: retryBaseDelay, logger: logger}
}

// WithBaseDelay overrides the first backoff interval.
func (m *RetryMailer) WithBaseDelay(delay time.Duration) *RetryMailer {
	m.baseDelay = delay
	return m
}

// Send implements [Mailer].
func (m *RetryMailer) Send(ctx context.Context, message Message) (Result, error) {
	backoff := retry.NewExponential(m.baseDelay)
	backoff = retry.WithCappedDuration(retryMaxDelay, backoff)
	backoff = retry.WithMaxRetries(m.maxRetries, backoff)

	var result Result
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		sent, err := m.next.Send(ctx, message)
		if err == nil {
			result = sent
			return nil
		}
		if errors.Is(err, ErrInvalidMessage) {
			return err
		}

		m.logger.WarnContext(ctx, "mail_send_attempt_failed",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		return retry.RetryableError(err)
	})

	return result, err
}
