// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/validate"
	"github.com/taibuivan/swifttravel/internal/users/auth"
	"github.com/taibuivan/swifttravel/pkg/pointer"
	"github.com/taibuivan/swifttravel/pkg/slice"
)

// # Service Layer

// Service orchestrates profile reads and updates.
type Service struct {
	repository ProfileRepository
}

// NewService constructs a new [Service].
func NewService(repository ProfileRepository) *Service {
	return &Service{repository: repository}
}

/*
GetProfile retrieves the full profile of a user.

Returns:
  - *auth.User: The hydrated user profile
  - error: NOT_FOUND or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID string) (*auth.User, error) {
	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

/*
UpdateProfile validates and applies a partial profile change.

Description: Preferences are merged field by field onto the stored values, so
a client can change its currency without resending its interests. An empty
name clears the stored name.

Returns:
  - *auth.User: The updated user profile
  - error: VALIDATION_ERROR, NOT_FOUND or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	current, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	update := auth.UserUpdate{}
	if input.Name != nil {
		update.Name = pointer.To(strings.TrimSpace(*input.Name))
	}
	if input.Preferences != nil {
		merged := mergePreferences(current.Preferences, *input.Preferences)
		update.Preferences = &merged
	}

	if update.IsEmpty() {
		return current, nil
	}

	updated, err := service.repository.Update(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "user_profile_updated", slog.String("user_id", userID))
	return updated, nil
}

// # Helpers

func validateInput(input UpdateProfileInput) error {
	v := &validate.Validator{}

	if input.Name != nil {
		v.MaxLen(auth.FieldName, strings.TrimSpace(*input.Name), MaxNameLength)
	}

	if patch := input.Preferences; patch != nil {
		if patch.Currency != nil {
			v.Custom(auth.FieldCurrency, !isCurrencyCode(*patch.Currency), "Must be a 3-letter ISO 4217 code")
		}
		if patch.TravelStyle != nil {
			v.OneOf(auth.FieldTravelStyle, *patch.TravelStyle,
				auth.TravelStyleBudget, auth.TravelStyleBalanced, auth.TravelStyleLuxury)
		}
		if patch.Interests != nil {
			interests := *patch.Interests
			v.MaxItems(auth.FieldInterests, len(interests), MaxInterests)
			for _, interest := range interests {
				v.Required(auth.FieldInterests, interest).MaxLen(auth.FieldInterests, interest, MaxInterestChars)
			}
		}
	}

	return v.Err()
}

func isCurrencyCode(code string) bool {
	if len(code) != CurrencyLength {
		return false
	}
	for _, r := range code {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func mergePreferences(current auth.Preferences, patch PreferencesPatch) auth.Preferences {
	merged := current
	if patch.Currency != nil {
		merged.Currency = strings.ToUpper(*patch.Currency)
	}
	if patch.TravelStyle != nil {
		merged.TravelStyle = *patch.TravelStyle
	}
	if patch.Interests != nil {
		merged.Interests = slice.Unique(slice.Map(*patch.Interests, strings.TrimSpace))
	}
	if merged.Interests == nil {
		merged.Interests = []string{}
	}
	return merged
}
