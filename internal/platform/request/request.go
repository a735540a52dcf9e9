// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away common body decoding patterns and access to the validated
session, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/taibuivan/swifttravel/internal/platform/apperr"
	"github.com/taibuivan/swifttravel/internal/platform/ctxutil"
	"github.com/taibuivan/swifttravel/internal/platform/sec"
	"github.com/taibuivan/swifttravel/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies; auth payloads are a few hundred bytes.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to enforce the body size limit)
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target interface{}) error {
	if request.Body == nil {
		return validate.ErrInvalidJSON
	}

	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Auth extracts the validated session from the request context.

Returns nil if the request has not passed the session middleware.
*/
func Auth(request *http.Request) *sec.AuthContext {
	return ctxutil.GetAuth(request.Context())
}

/*
RequiredAuth ensures the request carries a validated session.

Returns:
  - *sec.AuthContext: The authenticated session
  - error: apperr.ErrNoToken if the request is not authenticated
*/
func RequiredAuth(request *http.Request) (*sec.AuthContext, error) {
	auth := ctxutil.GetAuth(request.Context())
	if auth == nil {
		return nil, apperr.ErrNoToken
	}
	return auth, nil
}
