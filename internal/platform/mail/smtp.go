// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SMTPConfig holds the connection settings for [SMTPMailer].
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer delivers mail through any STARTTLS-capable SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates an [SMTPMailer].
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send implements [Mailer]. Plaintext sessions are refused.
func (m *SMTPMailer) Send(ctx context.Context, message Message) (Result, error) {
	if err := message.Validate(); err != nil {
		return Result{}, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.cfg.Host)
	body, err := m.compose(message, messageID)
	if err != nil {
		return Result{}, err
	}

	address := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", address)
	if err != nil {
		return Result{}, fmt.Errorf("smtp dial: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return Result{}, fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); !ok {
		return Result{}, fmt.Errorf("smtp server does not advertise STARTTLS")
	}
	if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
		return Result{}, fmt.Errorf("smtp starttls: %w", err)
	}

	if m.cfg.Username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)); err != nil {
			return Result{}, fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(envelopeAddress(m.cfg.From)); err != nil {
		return Result{}, fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(message.To); err != nil {
		return Result{}, fmt.Errorf("smtp RCPT TO: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return Result{}, fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := writer.Write(body); err != nil {
		return Result{}, fmt.Errorf("smtp write: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("smtp data close: %w", err)
	}

	if err := client.Quit(); err != nil {
		return Result{}, fmt.Errorf("smtp quit: %w", err)
	}

	return Result{MessageID: messageID}, nil
}

// compose renders a multipart/alternative MIME message.
func (m *SMTPMailer) compose(message Message, messageID string) ([]byte, error) {
	var body bytes.Buffer
	parts := multipart.NewWriter(&body)

	headers := []string{
		"From: " + m.cfg.From,
		"To: " + message.To,
		"Subject: " + message.Subject,
		"Message-ID: " + messageID,
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + parts.Boundary(),
	}

	for _, alternative := range []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", message.Text},
		{"text/html; charset=UTF-8", message.HTML},
	} {
		if alternative.content == "" {
			continue
		}
		part, err := parts.CreatePart(textproto.MIMEHeader{"Content-Type": {alternative.contentType}})
		if err != nil {
			return nil, fmt.Errorf("mail: failed to create mime part: %w", err)
		}
		if _, err := part.Write([]byte(alternative.content)); err != nil {
			return nil, fmt.Errorf("mail: failed to write mime part: %w", err)
		}
	}
	if err := parts.Close(); err != nil {
		return nil, fmt.Errorf("mail: failed to close mime body: %w", err)
	}

	return append([]byte(strings.Join(headers, "\r\n")+"\r\n\r\n"), body.Bytes()...), nil
}

// envelopeAddress extracts the bare address from "Name <addr>".
func envelopeAddress(from string) string {
	start := strings.LastIndex(from, "<")
	end := strings.LastIndex(from, ">")
	if start >= 0 && end > start {
		return from[start+1 : end]
	}
	return from
}
