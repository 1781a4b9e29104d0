// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/ctxutil"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

// IdentityResolver turns a bearer token into a principal holding the
// required scopes.
//
// Defining it here keeps the middleware independent of the users/auth
// package and lets tests inject a stub.
type IdentityResolver interface {
	Resolve(context context.Context, token string, required []sec.Scope) (*sec.Principal, error)
}

/*
RequireScopes guards a route with the given scopes.

Flow:
 1. Extract the token from 'Authorization: Bearer <token>' (absent is passed on as "").
 2. Resolve it via [IdentityResolver]; failures are rendered as-is (401/403
    with a WWW-Authenticate challenge).
 3. Store the [*sec.Principal] in the request context.

Parameters:
  - resolver: IdentityResolver
  - scopes: ...sec.Scope (empty means any authenticated principal)

Returns:
  - func(http.Handler) http.Handler
*/
func RequireScopes(resolver IdentityResolver, scopes ...sec.Scope) func(http.Handler) http.Handler {
	required := append([]sec.Scope(nil), scopes...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := BearerToken(request)

			principal, err := resolver.Resolve(request.Context(), token, required)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// BearerToken returns the credentials of a 'Bearer' Authorization header,
// or "" when the header is absent or uses another scheme.
func BearerToken(request *http.Request) string {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
