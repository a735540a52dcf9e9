// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/platform/mail"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type flakyMailer struct {
	failures int
	calls    int
	err      error
}

func (f *flakyMailer) Send(_ context.Context, message mail.Message) (mail.Result, error) {
	f.calls++
	if f.calls <= f.failures {
		return mail.Result{}, f.err
	}
	return mail.Result{MessageID: "id-" + message.To}, nil
}

/*
TestRenderMagicLink embeds the link and expiry in both bodies.
*/
func TestRenderMagicLink(t *testing.T) {
	link := "https://swifttravel.app/auth/verify?token=abc123"

	message, err := mail.RenderMagicLink("user@example.com", link, 15*time.Minute)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", message.To)
	assert.Equal(t, mail.MagicLinkSubject, message.Subject)
	assert.Contains(t, message.Text, link)
	assert.Contains(t, message.Text, "15 minutes")
	assert.Contains(t, message.HTML, "token=abc123")
	assert.Contains(t, message.HTML, "15 minutes")
}

/*
TestFormatDuration picks the largest whole unit.
*/
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{24 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mail.FormatDuration(tt.in))
	}
}

/*
TestLogMailer accepts valid messages and rejects incomplete ones.
*/
func TestLogMailer(t *testing.T) {
	mailer := mail.NewLogMailer(discard)

	result, err := mailer.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.MessageID)

	_, err = mailer.Send(context.Background(), mail.Message{Subject: "hi"})
	assert.ErrorIs(t, err, mail.ErrInvalidMessage)
}

/*
TestRetryMailer_RecoversFromTransientFailures succeeds within the retry budget.
*/
func TestRetryMailer_RecoversFromTransientFailures(t *testing.T) {
	inner := &flakyMailer{failures: 2, err: errors.New("connection reset")}
	mailer := mail.NewRetryMailer(inner, 3, discard).WithBaseDelay(time.Millisecond)

	result, err := mailer.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "id-a@example.com", result.MessageID)
	assert.Equal(t, 3, inner.calls)
}

/*
TestRetryMailer_GivesUp returns the last error once retries are exhausted.
*/
func TestRetryMailer_GivesUp(t *testing.T) {
	cause := errors.New("smtp unavailable")
	inner := &flakyMailer{failures: 10, err: cause}
	mailer := mail.NewRetryMailer(inner, 2, discard).WithBaseDelay(time.Millisecond)

	_, err := mailer.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi"})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, inner.calls)
}

/*
TestRetryMailer_DoesNotRetryInvalidMessages stops on the first permanent error.
*/
func TestRetryMailer_DoesNotRetryInvalidMessages(t *testing.T) {
	inner := &flakyMailer{failures: 10, err: mail.ErrInvalidMessage}
	mailer := mail.NewRetryMailer(inner, 5, discard).WithBaseDelay(time.Millisecond)

	_, err := mailer.Send(context.Background(), mail.Message{To: "a@example.com", Subject: "hi"})
	assert.ErrorIs(t, err, mail.ErrInvalidMessage)
	assert.Equal(t, 1, inner.calls)
}
