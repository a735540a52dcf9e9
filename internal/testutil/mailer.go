// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testutil

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sync"

	"github.com/taibuivan/swifttravel/internal/platform/mail"
)

var linkPattern = regexp.MustCompile(`https?://\S+`)

// RecordingMailer implements mail.Mailer and keeps every accepted message.
type RecordingMailer struct {
	Err error

	messages []mail.Message
	mu       sync.Mutex
}

func (m *RecordingMailer) Send(_ context.Context, message mail.Message) (mail.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return mail.Result{}, m.Err
	}
	m.messages = append(m.messages, message)
	return mail.Result{MessageID: fmt.Sprintf("test-%d", len(m.messages))}, nil
}

// Messages returns a copy of the sent messages.
func (m *RecordingMailer) Messages() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.messages...)
}

// LastLink returns the sign-in link of the most recent message.
func (m *RecordingMailer) LastLink() string {
	messages := m.Messages()
	if len(messages) == 0 {
		return ""
	}
	return linkPattern.FindString(messages[len(messages)-1].Text)
}

// LastToken returns the token query parameter of the most recent link.
func (m *RecordingMailer) LastToken() string {
	link, err := url.Parse(m.LastLink())
	if err != nil {
		return ""
	}
	return link.Query().Get("token")
}
