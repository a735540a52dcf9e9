// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements passwordless sign-in and the session lifecycle.

# Components

  - [RateLimiter]: per-email issuance counter on the Token Store.
  - [Issuer]: mints single-use magic-link tokens and hands them to the mailer.
  - [Verifier]: atomically consumes a magic-link token, upserts the user, and mints a session.
  - [SessionValidator]: gates authenticated requests on signature, expiry and revocation.
  - [RevocationRegistry]: records revoked session identifiers until they would expire anyway.

All shared state lives in the Token Store (Redis) and the User Directory
(PostgreSQL); the components themselves hold only configuration.
*/
package auth

import "time"

// # Domain Entities

// Travel styles accepted in [Preferences].
const (
	TravelStyleBudget   = "budget"
	TravelStyleBalanced = "balanced"
	TravelStyleLuxury   = "luxury"
)

// Preferences is the structured travel profile attached to a user.
type Preferences struct {
	Currency    string   `json:"currency"`
	TravelStyle string   `json:"travelStyle"`
	Interests   []string `json:"interests"`
}

// DefaultPreferences is assigned to users created on first sign-in.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency:    "USD",
		TravelStyle: TravelStyleBalanced,
		Interests:   []string{},
	}
}

// User represents a member of the User Directory.
type User struct {
	ID           string      `json:"id"           db:"id"`
	Email        string      `json:"email"        db:"email"`
	Name         *string     `json:"name"         db:"name"`
	Preferences  Preferences `json:"preferences"  db:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"    db:"created_at"`
	LastActiveAt time.Time   `json:"lastActiveAt" db:"last_active_at"`
}

// UserUpdate is a partial update. Nil fields are left unchanged.
type UserUpdate struct {
	Name         *string
	Preferences  *Preferences
	LastActiveAt *time.Time
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Preferences == nil && u.LastActiveAt == nil
}

// MagicToken is the value stored under a magic-link key.
type MagicToken struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Field Identifiers

const (
	FieldEmail       = "email"
	FieldToken       = "token"
	FieldName        = "name"
	FieldCurrency    = "preferences.currency"
	FieldTravelStyle = "preferences.travelStyle"
	FieldInterests   = "preferences.interests"
	FieldSuccess     = "success"
	FieldMessage     = "message"
	FieldUser        = "user"
)
