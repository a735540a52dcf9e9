// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package emailaddr canonicalizes email addresses before they are used as keys.
//
// # Usage
//
// Rate-limit counters, magic-link bindings, and user lookups are all keyed by
// email. Normalizing once at the boundary keeps "User@Example.com " and
// "user@example.com" on the same counter and the same account.
package emailaddr

import (
	"net/mail"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize converts an address into its canonical key form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFC (composed form) so visually equal strings compare equal.
// 2. Strips control and zero-width characters.
// 3. Trims surrounding whitespace.
// 4. Converts to lowercase.
func Normalize(address string) string {
	t := transform.Chain(norm.NFC, transform.RemoveFunc(isInvisible))
	result, _, err := transform.String(t, address)
	if err != nil {
		result = address
	}

	return strings.ToLower(strings.TrimSpace(result))
}

// IsValid reports whether address is a bare addr-spec with a dotted domain.
// Display-name forms such as "Jane <jane@example.com>" are rejected.
func IsValid(address string) bool {
	parsed, err := mail.ParseAddress(address)
	if err != nil || parsed.Address != address {
		return false
	}

	at := strings.LastIndex(address, "@")
	domain := address[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}

// isInvisible reports whether r is a control or format character (e.g., U+200B).
func isInvisible(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r)
}
