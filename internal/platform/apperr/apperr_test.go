// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
)

/*
TestAppError_StatusMapping checks every constructor maps to the expected status and code.
*/
func TestAppError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
	}{
		{"validation", apperr.ValidationError("bad"), http.StatusBadRequest, apperr.CodeValidation},
		{"method", apperr.MethodNotAllowed(http.MethodGet), http.StatusMethodNotAllowed, apperr.CodeMethodNotAllowed},
		{"not_found", apperr.NotFound("User"), http.StatusNotFound, apperr.CodeNotFound},
		{"rate_limited", apperr.RateLimited(60), http.StatusTooManyRequests, apperr.CodeRateLimited},
		{"no_token", apperr.ErrNoToken, http.StatusUnauthorized, apperr.CodeNoToken},
		{"invalid_token", apperr.ErrInvalidToken, http.StatusUnauthorized, apperr.CodeInvalidToken},
		{"expired", apperr.ErrTokenExpired, http.StatusUnauthorized, apperr.CodeTokenExpired},
		{"revoked", apperr.ErrTokenRevoked, http.StatusUnauthorized, apperr.CodeTokenRevoked},
		{"magic_link", apperr.ErrInvalidOrExpiredToken, http.StatusUnauthorized, apperr.CodeInvalidOrExpiredToken},
		{"delivery", apperr.DeliveryFailed(errors.New("smtp down")), http.StatusInternalServerError, apperr.CodeDeliveryFailed},
		{"internal", apperr.Internal(errors.New("boom")), http.StatusInternalServerError, apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

/*
TestAppError_WithCause verifies sentinels are not mutated and still match through wrapping.
*/
func TestAppError_WithCause(t *testing.T) {
	cause := errors.New("signature mismatch")
	derived := apperr.ErrInvalidToken.WithCause(cause)

	assert.Nil(t, apperr.ErrInvalidToken.Cause)
	assert.ErrorIs(t, derived, cause)
	assert.ErrorIs(t, derived, apperr.ErrInvalidToken)

	wrapped := fmt.Errorf("session: %w", derived)
	assert.True(t, apperr.HasCode(wrapped, apperr.CodeInvalidToken))
	assert.False(t, errors.Is(wrapped, apperr.ErrTokenExpired))
}

/*
TestAppError_As extracts the typed error from a wrapped chain.
*/
func TestAppError_As(t *testing.T) {
	err := fmt.Errorf("outer: %w", apperr.RateLimited(30))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 30, ae.RetryAfter)
	assert.True(t, apperr.IsAppError(err))

	assert.Nil(t, apperr.As(errors.New("plain")))
}
