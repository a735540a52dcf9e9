// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

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
	requestutil "github.com/taibuivan/swifttravel/internal/platform/request"
	"github.com/taibuivan/swifttravel/internal/platform/respond"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

// newServer mounts the auth routes under /auth with a /whoami probe behind the session gate.
func (f *fixture) newServer(verifyPerMinute int) http.Handler {
	whoami := func(r chi.Router) {
		r.Get("/whoami", func(writer http.ResponseWriter, request *http.Request) {
			authCtx, err := requestutil.RequiredAuth(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}
			respond.OK(writer, authCtx.User)
		})
	}

	router := chi.NewRouter()
	router.Mount("/auth", auth.NewHandler(f.issuer, f.verifier, f.validator, verifyPerMinute).Routes(whoami))
	return router
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request.RemoteAddr = "203.0.113.10:40000"
	for _, m := range mutate {
		m(request)
	}

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

/*
TestHandler_MethodNotAllowed answers 405 for non-POST calls to the sign-in endpoints.
*/
func TestHandler_MethodNotAllowed(t *testing.T) {
	server := newFixture(t).newServer(0)

	for _, path := range []string{"/auth/magic-link", "/auth/verify", "/auth/logout"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			recorder := doJSON(t, server, method, path, "")

			assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code, method+" "+path)
			assert.Equal(t, apperr.CodeMethodNotAllowed, decodeBody(t, recorder)["code"])
		}
	}
}

/*
TestHandler_MagicLink acknowledges a request and rejects bad payloads.
*/
func TestHandler_MagicLink(t *testing.T) {
	f := newFixture(t)
	server := f.newServer(0)

	recorder := doJSON(t, server, http.MethodPost, "/auth/magic-link", `{"email":"User@Example.com"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Magic link sent. Check your email to sign in.", body["message"])
	assert.Len(t, f.mailer.Messages(), 1)

	recorder = doJSON(t, server, http.MethodPost, "/auth/magic-link", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(t, server, http.MethodPost, "/auth/magic-link", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, apperr.CodeValidation, decodeBody(t, recorder)["code"])
}

/*
TestHandler_MagicLinkRateLimited sets Retry-After on the sixth request.
*/
func TestHandler_MagicLinkRateLimited(t *testing.T) {
	server := newFixture(t).newServer(0)

	for range 5 {
		require.Equal(t, http.StatusOK, doJSON(t, server, http.MethodPost, "/auth/magic-link", `{"email":"a@example.com"}`).Code)
	}

	recorder := doJSON(t, server, http.MethodPost, "/auth/magic-link", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "900", recorder.Header().Get("Retry-After"))
}

/*
TestHandler_VerifySetsCookie returns the session and an HttpOnly cookie.
*/
func TestHandler_VerifySetsCookie(t *testing.T) {
	f := newFixture(t)
	server := f.newServer(0)
	token := f.issueToken(t, testEmail)

	recorder := doJSON(t, server, http.MethodPost, "/auth/verify", `{"token":"`+token+`"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["sessionToken"])
	assert.Equal(t, "2026-03-02T12:00:00Z", body["expiresAt"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, testEmail, user["email"])
	assert.Equal(t, "USD", user["preferences"].(map[string]any)["currency"])

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, "session", cookie.Name)
	assert.Equal(t, body["sessionToken"], cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 86400, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	replay := doJSON(t, server, http.MethodPost, "/auth/verify", `{"token":"`+token+`"}`)
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
	assert.Equal(t, apperr.CodeInvalidOrExpiredToken, decodeBody(t, replay)["code"])
}

/*
TestHandler_VerifyMissingToken fails validation before touching the store.
*/
func TestHandler_VerifyMissingToken(t *testing.T) {
	f := newFixture(t)

	recorder := doJSON(t, f.newServer(0), http.MethodPost, "/auth/verify", `{}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Zero(t, f.store.Writes)
}

/*
TestHandler_VerifyPerIPLimit caps guessing attempts from one client.
*/
func TestHandler_VerifyPerIPLimit(t *testing.T) {
	server := newFixture(t).newServer(2)

	codes := make([]int, 0, 3)
	for range 3 {
		codes = append(codes, doJSON(t, server, http.MethodPost, "/auth/verify", `{"token":"guess"}`).Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

/*
TestHandler_LogoutFlow revokes the cookie session and clears the cookie.
*/
func TestHandler_LogoutFlow(t *testing.T) {
	f := newFixture(t)
	server := f.newServer(0)
	session := f.signIn(t, testEmail)
	withCookie := func(request *http.Request) {
		request.AddCookie(&http.Cookie{Name: "session", Value: session.Token.Token})
	}

	whoami := doJSON(t, server, http.MethodGet, "/auth/whoami", "", withCookie)
	require.Equal(t, http.StatusOK, whoami.Code)
	assert.Equal(t, session.User.ID, decodeBody(t, whoami)["userId"])

	logout := doJSON(t, server, http.MethodPost, "/auth/logout", "", withCookie)
	require.Equal(t, http.StatusOK, logout.Code)
	assert.Equal(t, true, decodeBody(t, logout)["success"])

	cookies := logout.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)

	after := doJSON(t, server, http.MethodGet, "/auth/whoami", "", func(request *http.Request) {
		request.Header.Set("Authorization", "Bearer "+session.Token.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, after.Code)
	assert.Equal(t, apperr.CodeTokenRevoked, decodeBody(t, after)["code"])
}

/*
TestHandler_LogoutWithoutSession is rejected by the session gate.
*/
func TestHandler_LogoutWithoutSession(t *testing.T) {
	recorder := doJSON(t, newFixture(t).newServer(0), http.MethodPost, "/auth/logout", "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeNoToken, decodeBody(t, recorder)["code"])
}
