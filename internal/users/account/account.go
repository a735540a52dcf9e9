// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles the signed-in user's profile and travel preferences.

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    reuses the User Directory through a narrow [ProfileRepository] contract.
  - Security: Every route runs behind the session gate; a user can only read
    and modify their own record.
*/
package account

import (
	"context"

	"github.com/taibuivan/swifttravel/internal/users/auth"
)

// # Constraints

const (
	MaxNameLength    = 100
	MaxInterests     = 20
	MaxInterestChars = 50
	CurrencyLength   = 3
)

// # Repository Contracts

// ProfileRepository defines the persistence contract for profiles.
type ProfileRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Returns:
		  - *auth.User: Loaded account entity
		  - error: [auth.ErrUserNotFound] or storage failures
	*/
	FindByID(ctx context.Context, id string) (*auth.User, error)

	/*
		Update applies a partial update to the user record.

		Returns:
		  - *auth.User: Updated account entity
		  - error: [auth.ErrUserNotFound] or storage failures
	*/
	Update(ctx context.Context, id string, update auth.UserUpdate) (*auth.User, error)
}

// # Inputs

// PreferencesPatch carries the preference fields a client chose to change.
type PreferencesPatch struct {
	Currency    *string   `json:"currency"`
	TravelStyle *string   `json:"travelStyle"`
	Interests   *[]string `json:"interests"`
}

// UpdateProfileInput defines the mutable subset of profile fields.
type UpdateProfileInput struct {
	Name        *string           `json:"name"`
	Preferences *PreferencesPatch `json:"preferences"`
}
