// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (random token generation, JWT
// signing) from the domain logic. It acts as an Infrastructure service injected
// into the application layer via small interfaces declared by the consumers.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/swifttravel/internal/platform/clock"
)

// fallbackIDLength is how many leading characters of a raw token stand in
// for a missing jti claim.
const fallbackIDLength = 16

var (
	// ErrTokenExpired is returned when a session token is past its expiry.
	ErrTokenExpired = errors.New("sec: session token expired")

	// ErrTokenInvalid is returned for malformed, badly signed, or otherwise
	// unacceptable session tokens.
	ErrTokenInvalid = errors.New("sec: session token invalid")
)

// # Claims

// SessionClaims represents the payload embedded inside a session token.
//
// The explicit Expiry claim duplicates the registered 'exp' so that validators
// can check it independently of the signing library.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
	Email  string `json:"email"`
	Expiry int64  `json:"expiresAt"`
}

// TokenID returns the jti claim, or a prefix of the raw token when the claim is absent.
func (c *SessionClaims) TokenID(raw string) string {
	if c.ID != "" {
		return c.ID
	}
	if len(raw) <= fallbackIDLength {
		return raw
	}
	return raw[:fallbackIDLength]
}

// ExpiresAt returns the explicit expiry claim as a time.
func (c *SessionClaims) ExpiresAt() time.Time {
	return time.Unix(c.Expiry, 0)
}

// SessionToken is a freshly minted, signed session credential.
type SessionToken struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// # Token Service

// TokenService handles generation and verification of HS256 session tokens.
type TokenService struct {
	secret []byte
	issuer string
	clock  clock.Clock
	parser *jwt.Parser
}

// Option customises a [TokenService].
type Option func(*TokenService)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(c clock.Clock) Option {
	return func(service *TokenService) {
		service.clock = clock.OrSystem(c)
	}
}

// NewTokenService creates a new TokenService bound to a shared HMAC secret.
func NewTokenService(secret, issuer string, options ...Option) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: session secret must not be empty")
	}

	service := &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		clock:  clock.System(),
	}
	for _, option := range options {
		option(service)
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(service.clock.Now),
	}
	if issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(issuer))
	}
	service.parser = jwt.NewParser(parserOptions...)

	return service, nil
}

// Mint signs a new session token for the user, valid for timeToLive.
// Every token carries a fresh UUIDv7 jti so it can be revoked individually.
func (service *TokenService) Mint(userID, email string, timeToLive time.Duration) (*SessionToken, error) {
	tokenID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("sec: failed to generate token id: %w", err)
	}

	issuedAt := service.clock.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(timeToLive)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
		Expiry: expiresAt.Unix(),
	}

	signed, err := service.Sign(claims)
	if err != nil {
		return nil, err
	}

	return &SessionToken{Token: signed, ID: claims.ID, ExpiresAt: expiresAt}, nil
}

// Sign serialises and signs arbitrary session claims.
func (service *TokenService) Sign(claims SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}

/*
Verify checks the signature and registered claims of a session token.

Returns:
  - *SessionClaims: the decoded claims on success
  - error: wraps [ErrTokenExpired] or [ErrTokenInvalid] for expected failures;
    any other error is unexpected and should surface as a server error
*/
func (service *TokenService) Verify(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	_, err := service.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, classify(err)
	}

	if claims.UserID == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing identity claims", ErrTokenInvalid)
	}

	return claims, nil
}

// classify maps signing-library errors onto the package sentinels.
// Expired is checked first because expiry is also reported as invalid claims.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	default:
		return fmt.Errorf("sec: unexpected verification failure: %w", err)
	}
}
