// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// MagicLinkSubject is the subject line of every sign-in email.
const MagicLinkSubject = "Sign in to Swift Travel"

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	magicLinkHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/magic_link.html.tmpl"))
	magicLinkText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/magic_link.txt.tmpl"))
)

type magicLinkData struct {
	Link      string
	ExpiresIn string
}

// RenderMagicLink builds the sign-in email addressed to recipient.
func RenderMagicLink(recipient, link string, expiresIn time.Duration) (Message, error) {
	data := magicLinkData{Link: link, ExpiresIn: FormatDuration(expiresIn)}

	var htmlBody bytes.Buffer
	if err := magicLinkHTML.Execute(&htmlBody, data); err != nil {
		return Message{}, fmt.Errorf("mail: failed to render html body: %w", err)
	}

	var textBody bytes.Buffer
	if err := magicLinkText.Execute(&textBody, data); err != nil {
		return Message{}, fmt.Errorf("mail: failed to render text body: %w", err)
	}

	return Message{
		To:      recipient,
		Subject: MagicLinkSubject,
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}

// FormatDuration renders an expiry as "15 minutes", "1 hour", "2 days".
func FormatDuration(duration time.Duration) string {
	switch {
	case duration >= 24*time.Hour:
		return plural(int(duration.Hours()/24), "day")
	case duration >= time.Hour:
		return plural(int(duration.Hours()), "hour")
	default:
		return plural(int(duration.Minutes()), "minute")
	}
}

func plural(count int, unit string) string {
	if count == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", count, unit)
}
