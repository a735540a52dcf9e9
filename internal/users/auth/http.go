// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/constants"
	"github.com/taibuivan/swifttravel/internal/platform/middleware"
	requestutil "github.com/taibuivan/swifttravel/internal/platform/request"
	"github.com/taibuivan/swifttravel/internal/platform/respond"
	"github.com/taibuivan/swifttravel/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the passwordless sign-in endpoints.
type Handler struct {
	issuer   *Issuer
	verifier *Verifier
	sessions *SessionValidator

	verifyRequestsPerMinute int
}

// NewHandler constructs a new [Handler]. verifyRequestsPerMinute caps
// verification attempts per client IP; zero disables the cap.
func NewHandler(issuer *Issuer, verifier *Verifier, sessions *SessionValidator, verifyRequestsPerMinute int) *Handler {
	return &Handler{
		issuer:                  issuer,
		verifier:                verifier,
		sessions:                sessions,
		verifyRequestsPerMinute: verifyRequestsPerMinute,
	}
}

// Routes returns a [chi.Router] with the authentication routes.
//
// # Endpoints
//   - POST /magic-link : Emails a sign-in link.
//   - POST /verify     : Redeems a link token for a session.
//   - POST /logout     : Revokes the current session.
//
// Each protected function registers further routes behind the session gate.
func (handler *Handler) Routes(protected ...func(chi.Router)) chi.Router {
	router := chi.NewRouter()
	router.MethodNotAllowed(MethodNotAllowed)

	router.Post("/magic-link", handler.requestMagicLink)

	verify := router.With()
	if handler.verifyRequestsPerMinute > 0 {
		verify = router.With(middleware.PerIPWindow(handler.verifyRequestsPerMinute, time.Minute))
	}
	verify.Post("/verify", handler.verify)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(handler.sessions))
		r.Post("/logout", handler.logout)
		for _, register := range protected {
			register(r)
		}
	})

	return router
}

// MethodNotAllowed answers 405 with the standard error envelope.
func MethodNotAllowed(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.MethodNotAllowed(request.Method))
}

// # Request Payloads

type magicLinkRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Success      bool      `json:"success"`
	User         *User     `json:"user"`
	SessionToken string    `json:"sessionToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

/*
requestMagicLink emails a single-use sign-in link.

POST /auth/magic-link

Request:
  - Body: magicLinkRequest (Email)

Response:
  - 200: {success, message}
  - 400: VALIDATION_ERROR: Bad JSON or email
  - 429: RATE_LIMITED: Too many links for this email
  - 500: DELIVERY_FAILED or INTERNAL_ERROR
*/
func (handler *Handler) requestMagicLink(writer http.ResponseWriter, request *http.Request) {
	var input magicLinkRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.issuer.Issue(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldSuccess: true,
		FieldMessage: "Magic link sent. Check your email to sign in.",
	})
}

/*
verify redeems a magic-link token and starts a session.

POST /auth/verify

Request:
  - Body: verifyRequest (Token)

Response:
  - 200: verifyResponse plus an HttpOnly session cookie
  - 400: VALIDATION_ERROR: Bad JSON or missing token
  - 401: INVALID_OR_EXPIRED_TOKEN
  - 429: RATE_LIMITED: Too many attempts from this IP
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.verifier.Verify(request.Context(), input.Token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Token.Token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(handler.verifier.SessionTTL() / time.Second),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, verifyResponse{
		Success:      true,
		User:         session.User,
		SessionToken: session.Token.Token,
		ExpiresAt:    session.Token.ExpiresAt,
	})
}

/*
logout revokes the current session and clears the cookie.

POST /auth/logout

Response:
  - 200: {success}
  - 401: Session validation failures
  - 500: Revocation could not be stored
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	auth, err := requestutil.RequiredAuth(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Logout(request.Context(), auth); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	respond.OK(writer, map[string]any{FieldSuccess: true})
}
