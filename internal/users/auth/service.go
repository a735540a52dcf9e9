// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/metrics"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/pkg/uuid"
)

// # Contracts & Types

// SessionMinter signs session tokens.
type SessionMinter interface {
	Mint(userID, email string, timeToLive time.Duration) (*sec.SessionToken, error)
}

// Session is the result of a successful magic-link verification.
type Session struct {
	User  *User
	Token *sec.SessionToken
}

// Verifier redeems magic-link tokens for sessions.
type Verifier struct {
	store      TokenStore
	users      UserRepository
	minter     SessionMinter
	sessionTTL time.Duration
	options
}

// NewVerifier constructs a [Verifier].
func NewVerifier(store TokenStore, users UserRepository, minter SessionMinter, sessionTTL time.Duration, opts ...Option) *Verifier {
	return &Verifier{
		store:      store,
		users:      users,
		minter:     minter,
		sessionTTL: sessionTTL,
		options:    buildOptions(opts),
	}
}

// SessionTTL is the lifetime of sessions minted by this verifier.
func (verifier *Verifier) SessionTTL() time.Duration {
	return verifier.sessionTTL
}

// # Verification Flow

/*
Verify redeems token and starts a session for its email.

# Flow
 1. Atomically fetch and delete the magic-link entry. Of concurrent callers
    with the same token only one gets past this step.
 2. Upsert the user by email.
 3. Mint a session token valid for the configured lifetime.

Unknown, expired, already used and corrupt tokens are indistinguishable
to the caller.

Returns:
  - *Session: The user and the signed session token
  - error: [apperr.ErrInvalidOrExpiredToken] or INTERNAL_ERROR
*/
func (verifier *Verifier) Verify(ctx context.Context, token string) (*Session, error) {
	logger := ctxutil.GetLogger(ctx)

	token = strings.TrimSpace(token)
	if token == "" {
		verifier.metrics.Verification(metrics.OutcomeInvalid)
		return nil, apperr.ErrInvalidOrExpiredToken
	}

	raw, err := verifier.store.GetAndDelete(ctx, magicLinkKey(token))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			verifier.metrics.Verification(metrics.OutcomeInvalid)
			return nil, apperr.ErrInvalidOrExpiredToken
		}
		verifier.metrics.Verification(metrics.OutcomeError)
		return nil, apperr.Internal(err)
	}

	var magic MagicToken
	if err := json.Unmarshal([]byte(raw), &magic); err != nil || magic.Email == "" {
		logger.WarnContext(ctx, "magic_token_corrupt", slog.Any("error", err))
		verifier.metrics.Verification(metrics.OutcomeInvalid)
		return nil, apperr.ErrInvalidOrExpiredToken
	}

	user, err := verifier.upsertUser(ctx, magic.Email)
	if err != nil {
		verifier.metrics.Verification(metrics.OutcomeError)
		return nil, apperr.Internal(err)
	}

	session, err := verifier.minter.Mint(user.ID, user.Email, verifier.sessionTTL)
	if err != nil {
		verifier.metrics.Verification(metrics.OutcomeError)
		return nil, apperr.Internal(err)
	}

	verifier.metrics.Verification(metrics.OutcomeSuccess)
	logger.InfoContext(ctx, "magic_link_verified",
		slog.String("user_id", user.ID),
		slog.String("token_id", session.ID),
	)

	return &Session{User: user, Token: session}, nil
}

/*
upsertUser returns the user for email, creating it on first sign-in and
touching lastActiveAt otherwise.

Description: When a concurrent verification for the same email inserts first,
the unique index rejects our insert and the winner's row is used instead.
*/
func (verifier *Verifier) upsertUser(ctx context.Context, email string) (*User, error) {
	now := verifier.clock.Now().UTC()

	existing, err := verifier.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return verifier.touch(ctx, existing, now)
	case !errors.Is(err, ErrUserNotFound):
		return nil, fmt.Errorf("auth_upsert_lookup_failed: %w", err)
	}

	created, err := verifier.users.Create(ctx, &User{
		ID:           uuid.New(),
		Email:        email,
		Preferences:  DefaultPreferences(),
		CreatedAt:    now,
		LastActiveAt: now,
	})
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, ErrUserExists) {
		return nil, fmt.Errorf("auth_upsert_create_failed: %w", err)
	}

	existing, err = verifier.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth_upsert_refetch_failed: %w", err)
	}
	return verifier.touch(ctx, existing, now)
}

func (verifier *Verifier) touch(ctx context.Context, user *User, now time.Time) (*User, error) {
	updated, err := verifier.users.Update(ctx, user.ID, UserUpdate{LastActiveAt: &now})
	if err != nil {
		return nil, fmt.Errorf("auth_touch_last_active_failed: %w", err)
	}
	return updated, nil
}
