// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/metrics"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
)

// SessionVerifier checks the signature and registered claims of a session token.
type SessionVerifier interface {
	Verify(tokenString string) (*sec.SessionClaims, error)
}

// SessionValidator gates authenticated requests.
type SessionValidator struct {
	tokens      SessionVerifier
	revocations *RevocationRegistry
	failOpen    bool
	options
}

// NewSessionValidator constructs a [SessionValidator]. With failOpen, a
// revocation lookup that errors is treated as "not revoked".
func NewSessionValidator(tokens SessionVerifier, revocations *RevocationRegistry, failOpen bool, opts ...Option) *SessionValidator {
	return &SessionValidator{
		tokens:      tokens,
		revocations: revocations,
		failOpen:    failOpen,
		options:     buildOptions(opts),
	}
}

/*
Validate authenticates the credentials carried by an inbound request.

# Flow
 1. Take the Bearer token, else the session cookie (NO_TOKEN when neither).
 2. Verify signature and registered claims (TOKEN_EXPIRED or INVALID_TOKEN).
 3. Resolve the token identifier and consult the revocation registry
    (TOKEN_REVOKED). Lookup errors follow the fail-open policy.
 4. Compare the explicit expiresAt claim with the current time (TOKEN_EXPIRED).

Returns:
  - *sec.AuthContext: The authenticated identity
  - error: A 401 [apperr.AppError], or INTERNAL_ERROR for unexpected failures
*/
func (validator *SessionValidator) Validate(ctx context.Context, incoming sec.IncomingAuthRequest) (*sec.AuthContext, error) {
	raw := incoming.Token()
	if raw == "" {
		validator.metrics.SessionValidation(metrics.OutcomeNoToken)
		return nil, apperr.ErrNoToken
	}

	claims, err := validator.tokens.Verify(raw)
	if err != nil {
		switch {
		case errors.Is(err, sec.ErrTokenExpired):
			validator.metrics.SessionValidation(metrics.OutcomeExpired)
			return nil, apperr.ErrTokenExpired.WithCause(err)
		case errors.Is(err, sec.ErrTokenInvalid):
			validator.metrics.SessionValidation(metrics.OutcomeInvalid)
			return nil, apperr.ErrInvalidToken.WithCause(err)
		default:
			validator.metrics.SessionValidation(metrics.OutcomeError)
			return nil, apperr.Internal(err)
		}
	}

	tokenID := claims.TokenID(raw)

	revoked, err := validator.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		if !validator.failOpen {
			validator.metrics.SessionValidation(metrics.OutcomeError)
			return nil, apperr.Internal(err)
		}
		validator.metrics.RevocationFailOpen()
		ctxutil.GetLogger(ctx).WarnContext(ctx, "revocation_check_failed_open",
			slog.String("token_id", tokenID),
			slog.Any("error", err),
		)
	}
	if revoked {
		validator.metrics.SessionValidation(metrics.OutcomeRevoked)
		return nil, apperr.ErrTokenRevoked
	}

	expiresAt := claims.ExpiresAt()
	if !validator.clock.Now().Before(expiresAt) {
		validator.metrics.SessionValidation(metrics.OutcomeExpired)
		return nil, apperr.ErrTokenExpired
	}

	validator.metrics.SessionValidation(metrics.OutcomeSuccess)
	return &sec.AuthContext{
		User:         sec.Identity{UserID: claims.UserID, Email: claims.Email},
		SessionToken: raw,
		TokenID:      tokenID,
		ExpiresAt:    expiresAt,
	}, nil
}

/*
Logout revokes the session described by auth for the rest of its lifetime.

Returns:
  - error: INTERNAL_ERROR when the revocation cannot be stored
*/
func (validator *SessionValidator) Logout(ctx context.Context, auth *sec.AuthContext) error {
	remaining := auth.ExpiresAt.Sub(validator.clock.Now())
	if err := validator.revocations.Revoke(ctx, auth.TokenID, remaining); err != nil {
		return apperr.Internal(err)
	}

	validator.metrics.Revoked()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_revoked", slog.String("token_id", auth.TokenID))
	return nil
}
