// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/constants"
)

const (
	revokedSentinel = "revoked"

	// minRevocationTTL keeps a marker alive for tokens that are about to expire.
	minRevocationTTL = time.Second
)

// RevocationRegistry records session identifiers that must no longer be accepted.
type RevocationRegistry struct {
	store TokenStore
}

// NewRevocationRegistry creates a registry on top of store.
func NewRevocationRegistry(store TokenStore) *RevocationRegistry {
	return &RevocationRegistry{store: store}
}

/*
Revoke marks tokenID as revoked for ttl, which should cover the token's
remaining lifetime. Shorter values are raised to one second.

Returns:
  - error: Store failures (revocation writes never fail open)
*/
func (registry *RevocationRegistry) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("auth_revoke_failed: empty token id")
	}
	ttl = max(ttl, minRevocationTTL)

	if err := registry.store.SetWithExpiry(ctx, revocationKey(tokenID), revokedSentinel, ttl); err != nil {
		return fmt.Errorf("auth_revoke_failed: %w", err)
	}
	return nil
}

/*
IsRevoked reports whether tokenID carries a revocation marker.

Returns:
  - bool: true if revoked
  - error: Store failures; the caller decides whether to fail open
*/
func (registry *RevocationRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, err := registry.store.Get(ctx, revocationKey(tokenID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("auth_revocation_check_failed: %w", err)
	}
}

func revocationKey(tokenID string) string {
	return constants.RedisPrefixRevokedToken + tokenID
}
