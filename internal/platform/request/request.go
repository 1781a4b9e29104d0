// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/ctxutil"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Principal extracts the resolved principal from the request context.

Returns nil if the request is not authenticated.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated principal
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {
	principal := ctxutil.GetPrincipal(request.Context())
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return principal, nil
}

/*
RequiredUserID returns the ID of the currently authenticated principal.
*/
func RequiredUserID(request *http.Request) (string, error) {
	principal, err := RequiredPrincipal(request)
	if err != nil {
		return "", err
	}
	return principal.UserID, nil
}

// # Query Parameters

// QueryString returns the trimmed query value, or nil when absent or blank.
func QueryString(request *http.Request, key string) *string {
	value := strings.TrimSpace(request.URL.Query().Get(key))
	if value == "" {
		return nil
	}
	return &value
}

// QueryInt64 parses an optional integer query value.
func QueryInt64(request *http.Request, key string) (*int64, error) {
	raw := QueryString(request, key)
	if raw == nil {
		return nil, nil
	}

	value, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, validate.FieldError(key, "Must be an integer")
	}
	return &value, nil
}

// QueryBool parses an optional boolean query value ("true", "false", "1", "0").
func QueryBool(request *http.Request, key string) (*bool, error) {
	raw := QueryString(request, key)
	if raw == nil {
		return nil, nil
	}

	value, err := strconv.ParseBool(*raw)
	if err != nil {
		return nil, validate.FieldError(key, "Must be true or false")
	}
	return &value, nil
}

// QueryDate parses an optional YYYY-MM-DD query value.
func QueryDate(request *http.Request, key string) (*time.Time, error) {
	raw := QueryString(request, key)
	if raw == nil {
		return nil, nil
	}

	value, err := time.Parse(constants.DateLayout, *raw)
	if err != nil {
		return nil, validate.FieldError(key, "Must be a date in YYYY-MM-DD format")
	}
	return &value, nil
}
