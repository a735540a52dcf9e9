// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
)

var (
	// ErrKeyNotFound is returned by a [TokenStore] when a key is absent or expired.
	ErrKeyNotFound = errors.New("auth: key not found")

	// ErrUserNotFound is returned by a [UserRepository] when no record matches.
	ErrUserNotFound = apperr.NotFound("User")

	// ErrUserExists is returned by [UserRepository.Create] when the email is taken.
	ErrUserExists = errors.New("auth: user already exists")
)

// # Volatile Data Access

// TokenStore is the key-value store holding magic-link tokens, rate-limit
// counters and revocation markers. Every key carries its own expiry.
type TokenStore interface {

	/*
		Get returns the value stored under key.

		Returns:
		  - string: Stored value
		  - error: [ErrKeyNotFound] or connectivity errors
	*/
	Get(ctx context.Context, key string) (string, error)

	/*
		SetWithExpiry stores value under key, replacing any previous value.

		Parameters:
		  - ttl: time.Duration (must be positive)
	*/
	SetWithExpiry(ctx context.Context, key, value string, ttl time.Duration) error

	/*
		GetAndDelete atomically returns and removes the value under key.
		Of any number of concurrent callers, at most one observes the value.

		Returns:
		  - string: Removed value
		  - error: [ErrKeyNotFound] or connectivity errors
	*/
	GetAndDelete(ctx context.Context, key string) (string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	/*
		IncrementWithinLimit atomically increments the counter under key unless
		it already holds limit or more.

		Parameters:
		  - limit: int (maximum count within the window)
		  - window: time.Duration (counter lifetime)
		  - refreshTTL: bool (true resets the lifetime on every increment,
		    false sets it only when the counter is created)

		Returns:
		  - int: Counter value after the call
		  - bool: Whether the increment happened
		  - error: Connectivity errors
	*/
	IncrementWithinLimit(ctx context.Context, key string, limit int, window time.Duration, refreshTTL bool) (int, bool, error)
}

// # User Data Access

// UserRepository defines the data access contract for the User Directory.
type UserRepository interface {

	/*
		FindByEmail returns the user with the given normalized email.

		Returns:
		  - *User: Hydrated entity
		  - error: [ErrUserNotFound] or storage failures
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByID returns the user with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: [ErrUserNotFound] or storage failures
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		Create inserts a brand-new user.

		Returns:
		  - *User: The stored record
		  - error: [ErrUserExists] when the email is taken, or storage failures
	*/
	Create(ctx context.Context, user *User) (*User, error)

	/*
		Update applies a partial update and returns the resulting record.

		Returns:
		  - *User: The updated record
		  - error: [ErrUserNotFound] or storage failures
	*/
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)
}
