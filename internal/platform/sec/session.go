// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/constants"
)

// # Identity

// Identity is the authenticated principal carried by a session.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// AuthContext is the result of a successful session validation.
type AuthContext struct {
	User         Identity  `json:"user"`
	SessionToken string    `json:"-"`
	TokenID      string    `json:"-"`
	ExpiresAt    time.Time `json:"-"`
}

// # Inbound Credentials

// IncomingAuthRequest holds the credential-bearing parts of an HTTP request,
// extracted once at the transport boundary.
type IncomingAuthRequest struct {
	// Authorization is the raw Authorization header value.
	Authorization string
	// SessionCookie is the value of the session cookie, if any.
	SessionCookie string
}

// NewIncomingAuthRequest reads the Authorization header and the named cookie.
func NewIncomingAuthRequest(request *http.Request, cookieName string) IncomingAuthRequest {
	incoming := IncomingAuthRequest{
		Authorization: request.Header.Get(constants.HeaderAuthorization),
	}
	if cookie, err := request.Cookie(cookieName); err == nil {
		incoming.SessionCookie = cookie.Value
	}
	return incoming
}

// Token returns the session token, preferring a Bearer header over the cookie.
// It returns an empty string when neither carries a value.
func (incoming IncomingAuthRequest) Token() string {
	scheme, credentials, found := strings.Cut(strings.TrimSpace(incoming.Authorization), " ")
	if found && strings.EqualFold(scheme, constants.BearerScheme) {
		if token := strings.TrimSpace(credentials); token != "" {
			return token
		}
	}
	return strings.TrimSpace(incoming.SessionCookie)
}
