// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package emailaddr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/swifttravel/pkg/emailaddr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already canonical", "user@example.com", "user@example.com"},
		{"mixed case and spaces", "  User@Example.COM ", "user@example.com"},
		{"zero width space", "user\u200b@example.com", "user@example.com"},
		{"decomposed accent", "jose\u0301@example.com", "jos\u00e9@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, emailaddr.Normalize(tt.in))
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"user@example.com", true},
		{"a@b.com", true},
		{"bad-email", false},
		{"user@localhost", false},
		{"user@example.", false},
		{"Jane <jane@example.com>", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, emailaddr.IsValid(tt.in), tt.in)
	}
}
