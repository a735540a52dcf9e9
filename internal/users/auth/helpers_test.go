// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/internal/testutil"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

const (
	testSecret      = "0123456789abcdef0123456789abcdef"
	testIssuer      = "swifttravel.test"
	testFrontendURL = "https://app.swifttravel.test"
	testEmail       = "user@example.com"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clock       *testutil.ManualClock
	store       *testutil.MemoryTokenStore
	users       *testutil.MemoryUserRepository
	mailer      *testutil.RecordingMailer
	tokens      *sec.TokenService
	limiter     *auth.RateLimiter
	issuer      *auth.Issuer
	verifier    *auth.Verifier
	revocations *auth.RevocationRegistry
	validator   *auth.SessionValidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock:  testutil.NewManualClock(baseTime),
		users:  testutil.NewMemoryUserRepository(),
		mailer: &testutil.RecordingMailer{},
	}
	f.store = testutil.NewMemoryTokenStore(f.clock)

	tokens, err := sec.NewTokenService(testSecret, testIssuer, sec.WithClock(f.clock))
	require.NoError(t, err)
	f.tokens = tokens

	withClock := auth.WithClock(f.clock)
	f.limiter = auth.NewRateLimiter(f.store, 5, 15*time.Minute, true)
	f.issuer = auth.NewIssuer(f.store, f.limiter, f.mailer, auth.IssuerConfig{
		TokenTTL:    15 * time.Minute,
		FrontendURL: testFrontendURL,
		LinkPath:    "/auth/verify",
	}, withClock)
	f.verifier = auth.NewVerifier(f.store, f.users, f.tokens, 24*time.Hour, withClock)
	f.revocations = auth.NewRevocationRegistry(f.store)
	f.validator = auth.NewSessionValidator(f.tokens, f.revocations, true, withClock)

	return f
}

// issueToken requests a link for email and returns the token it carries.
func (f *fixture) issueToken(t *testing.T, email string) string {
	t.Helper()
	require.NoError(t, f.issuer.Issue(context.Background(), email))
	token := f.mailer.LastToken()
	require.NotEmpty(t, token)
	return token
}

// signIn runs the full issue and verify flow.
func (f *fixture) signIn(t *testing.T, email string) *auth.Session {
	t.Helper()
	session, err := f.verifier.Verify(context.Background(), f.issueToken(t, email))
	require.NoError(t, err)
	return session
}

func bearer(token string) sec.IncomingAuthRequest {
	return sec.IncomingAuthRequest{Authorization: "Bearer " + token}
}
