// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail implements the Email Delivery collaborator.

# Architecture

  - [Mailer]: the contract consumed by the auth core.
  - [LogMailer]: development stub that writes the message to the structured log.
  - [SMTPMailer]: STARTTLS-only SMTP delivery.
  - [RetryMailer]: decorator adding exponential backoff around any Mailer.

Retries and provider selection live here, never in the auth core.
*/
package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ErrInvalidMessage is returned when a message lacks a recipient or subject.
var ErrInvalidMessage = errors.New("mail: message requires a recipient and subject")

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the minimal fields every provider needs.
func (m Message) Validate() error {
	if m.To == "" || m.Subject == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Result describes an accepted message.
type Result struct {
	MessageID string
}

// Mailer delivers rendered messages.
type Mailer interface {
	Send(ctx context.Context, message Message) (Result, error)
}

// # Development Stub

// LogMailer logs messages instead of sending them.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a [LogMailer] writing to logger.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send implements [Mailer].
func (m *LogMailer) Send(ctx context.Context, message Message) (Result, error) {
	if err := message.Validate(); err != nil {
		return Result{}, err
	}

	messageID := fmt.Sprintf("log-%s", uuid.NewString())
	m.logger.InfoContext(ctx, "mail_logged",
		slog.String("message_id", messageID),
		slog.String("to", message.To),
		slog.String("subject", message.Subject),
		slog.String("text", message.Text),
	)

	return Result{MessageID: messageID}, nil
}
