// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/internal/users/account"
)

// newServer registers the profile routes behind a stub gate that
// authenticates as subject, or nobody when subject is empty.
func newServer(subject string) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if subject != "" {
				ctx := ctxutil.WithAuth(request.Context(), &sec.AuthContext{User: sec.Identity{UserID: subject}})
				request = request.WithContext(ctx)
			}
			next.ServeHTTP(writer, request)
		})
	})
	account.NewHandler(account.NewService(seededRepository())).RegisterRoutes(router)
	return router
}

func serve(handler http.Handler, method, body string) (int, map[string]any) {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, "/profile", strings.NewReader(body)))

	var decoded map[string]any
	_ = json.Unmarshal(recorder.Body.Bytes(), &decoded)
	return recorder.Code, decoded
}

/*
TestHandler_GetProfile returns the caller's own record.
*/
func TestHandler_GetProfile(t *testing.T) {
	code, body := serve(newServer(userID), http.MethodGet, "")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	assert.Equal(t, userID, user["id"])
	assert.Equal(t, "traveler@example.com", user["email"])
}

/*
TestHandler_UpdateProfile applies a partial JSON body.
*/
func TestHandler_UpdateProfile(t *testing.T) {
	code, body := serve(newServer(userID), http.MethodPut, `{"preferences":{"travelStyle":"budget"}}`)

	require.Equal(t, http.StatusOK, code)
	preferences := body["user"].(map[string]any)["preferences"].(map[string]any)
	assert.Equal(t, "budget", preferences["travelStyle"])
	assert.Equal(t, "USD", preferences["currency"])
}

/*
TestHandler_Errors covers bad bodies, validation, missing sessions and unknown users.
*/
func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		method   string
		body     string
		wantCode int
		wantErr  string
	}{
		{"bad json", userID, http.MethodPut, `{"name":`, http.StatusBadRequest, apperr.CodeValidation},
		{"invalid currency", userID, http.MethodPut, `{"preferences":{"currency":"dollars"}}`, http.StatusBadRequest, apperr.CodeValidation},
		{"no session", "", http.MethodGet, "", http.StatusUnauthorized, apperr.CodeNoToken},
		{"unknown user", "someone-else", http.MethodGet, "", http.StatusNotFound, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serve(newServer(tt.subject), tt.method, tt.body)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantErr, body["code"])
		})
	}
}
