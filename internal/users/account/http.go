// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/swifttravel/internal/platform/request"
	"github.com/taibuivan/swifttravel/internal/platform/respond"
	"github.com/taibuivan/swifttravel/internal/users/auth"
)

// Handler implements the profile endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// RegisterRoutes attaches the profile routes to a router that already
// enforces a valid session.
//
// # Endpoints
//   - GET /profile : Returns the signed-in user.
//   - PUT /profile : Updates name and preferences.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/profile", handler.getProfile)
	router.Put("/profile", handler.updateProfile)
}

/*
GET /auth/profile.

Response:
  - 200: {success, user}
  - 401: Session validation failures
  - 404: NOT_FOUND: The session's user no longer exists
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredAuth(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), session.User.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{auth.FieldSuccess: true, auth.FieldUser: user})
}

/*
PUT /auth/profile.

Request:
  - Body: UpdateProfileInput (Partial JSON)

Response:
  - 200: {success, user}
  - 400: VALIDATION_ERROR: Invalid input data
  - 401: Session validation failures
  - 404: NOT_FOUND
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	session, err := requestutil.RequiredAuth(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateProfileInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(), session.User.UserID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{auth.FieldSuccess: true, auth.FieldUser: user})
}
