// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/swifttravel/internal/platform/constants"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/respond"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
)

// SessionValidator defines the interface needed to gate requests on a session.
//
// Declaring it here decouples the middleware from the auth domain package and
// lets tests inject a stub.
type SessionValidator interface {
	Validate(ctx context.Context, incoming sec.IncomingAuthRequest) (*sec.AuthContext, error)
}

// RequireSession blocks requests that do not carry a valid session.
//
// # Flow
//  1. Parse the Authorization header and session cookie once into [sec.IncomingAuthRequest].
//  2. Validate via [SessionValidator]; any failure aborts with its typed error.
//  3. Inject [*sec.AuthContext] and a user-scoped logger into the request context.
func RequireSession(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			incoming := sec.NewIncomingAuthRequest(request, constants.SessionCookieName)

			auth, err := validator.Validate(request.Context(), incoming)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithAuth(request.Context(), auth)
			logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", auth.User.UserID))
			ctx = ctxutil.WithLogger(ctx, logger)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
