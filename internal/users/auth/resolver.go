// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/metrics"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

// BypassUserID is the subject of the synthetic development principal.
const BypassUserID = "00000000-0000-7000-8000-000000000000"

// TokenVerifier checks access tokens. Satisfied by [*sec.TokenCodec].
type TokenVerifier interface {
	Verify(token string) (*sec.VerifiedToken, error)
}

// PrincipalLoader is the slice of [UserRepository] the resolver needs.
type PrincipalLoader interface {
	FindByID(context context.Context, id string) (*User, error)
}

// Resolver turns bearer tokens into principals for protected routes.
//
// # Concurrency
//
// A Resolver is immutable after construction and shared across requests.
type Resolver struct {
	verifier TokenVerifier
	users    PrincipalLoader
	policy   *sec.Policy
	metrics  *metrics.Metrics
	logger   *slog.Logger

	// bypass is read once at construction; it cannot be toggled at runtime.
	bypass bool
}

// ResolverConfig bundles the collaborators of [Resolver].
type ResolverConfig struct {
	Verifier TokenVerifier
	Users    PrincipalLoader
	Policy   *sec.Policy
	Metrics  *metrics.Metrics
	Logger   *slog.Logger

	// Bypass enables the synthetic administrator. The config layer only
	// allows it in development and test environments.
	Bypass bool
}

// NewResolver constructs a [Resolver].
func NewResolver(cfg ResolverConfig) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{
		verifier: cfg.Verifier,
		users:    cfg.Users,
		policy:   cfg.Policy,
		metrics:  cfg.Metrics,
		logger:   logger,
		bypass:   cfg.Bypass,
	}
}

// BypassEnabled reports whether every request resolves to the synthetic administrator.
func (resolver *Resolver) BypassEnabled() bool {
	return resolver.bypass
}

/*
Resolve authenticates token and checks it carries every required scope.

Flow:
 1. Bypass mode returns the synthetic administrator without looking at the token.
 2. Verification failure (missing, malformed, bad signature, expired) is 401.
 3. A subject without an account is 401.
 4. A missing required scope is 403 with error="insufficient_scope".

The principal's scopes are the token's scopes narrowed to what the account's
current role allows, so a demoted account loses privileges immediately.

Parameters:
  - context: context.Context
  - token: string (raw bearer credentials, "" when absent)
  - required: []sec.Scope (empty means any authenticated principal)

Returns:
  - *sec.Principal: The resolved identity
  - error: *apperr.AppError carrying a WWW-Authenticate challenge
*/
func (resolver *Resolver) Resolve(context context.Context, token string, required []sec.Scope) (*sec.Principal, error) {
	if resolver.bypass {
		return SyntheticAdministrator(), nil
	}

	// 1. Token verification
	if token == "" {
		return nil, resolver.unauthorized(metrics.ReasonMissingToken, required, "", "Not authenticated")
	}

	verified, err := resolver.verifier.Verify(token)
	if err != nil {
		reason := verificationReason(err)
		resolver.logger.DebugContext(context, "auth_token_rejected",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
		return nil, resolver.unauthorized(reason, required, sec.ChallengeInvalidToken, "Could not validate credentials")
	}

	// 2. Subject lookup
	user, err := resolver.users.FindByID(context, verified.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			resolver.logger.WarnContext(context, "auth_unknown_subject", slog.String("user_id", verified.Subject))
			return nil, resolver.unauthorized(metrics.ReasonUnknownPrincipal, required, sec.ChallengeInvalidToken, "Could not validate credentials")
		}
		return nil, fmt.Errorf("auth_resolver_lookup_failed: %w", err)
	}

	allowed, err := resolver.policy.ScopesForRole(user.Role)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_resolver_role_failed: %w", err))
	}
	principal := user.Principal(verified.Scopes.Intersect(allowed))

	// 3. Scope check
	if missing := principal.Scopes.Missing(required...); len(missing) > 0 {
		resolver.metrics.AuthFailure(metrics.ReasonInsufficientScope)
		resolver.logger.WarnContext(context, "auth_insufficient_scope",
			slog.String("user_id", principal.UserID),
			slog.String("missing", sec.JoinScopes(missing)),
		)
		return nil, apperr.Forbidden("Not enough permissions").
			WithChallenge(sec.BearerChallenge(required, sec.ChallengeInsufficientScope))
	}

	return principal, nil
}

func (resolver *Resolver) unauthorized(reason string, required []sec.Scope, errorCode, message string) error {
	resolver.metrics.AuthFailure(reason)
	return apperr.Unauthorized(message).WithChallenge(sec.BearerChallenge(required, errorCode))
}

// verificationReason maps codec failures onto metric labels.
func verificationReason(err error) string {
	switch {
	case errors.Is(err, sec.ErrExpired):
		return metrics.ReasonExpired
	case errors.Is(err, sec.ErrInvalidSignature):
		return metrics.ReasonInvalidSignature
	default:
		return metrics.ReasonMalformed
	}
}

// SyntheticAdministrator is the principal returned in bypass mode.
func SyntheticAdministrator() *sec.Principal {
	return &sec.Principal{
		UserID:    BypassUserID,
		Email:     "bypass@daybook.local",
		Name:      "Development Bypass",
		Role:      sec.RoleAdministrator,
		Scopes:    sec.Universe(),
		Synthetic: true,
	}
}

// bypassPasswordHash is not a bcrypt hash, so the bypass account can never
// log in with a password.
const bypassPasswordHash = "!"

/*
EnsureBypassAccount makes sure the synthetic administrator has an account row
so that records it creates satisfy their user foreign keys.

Returns:
  - error: Storage failures; an existing row is not an error
*/
func EnsureBypassAccount(context context.Context, users UserRepository) error {
	_, err := users.FindByID(context, BypassUserID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return fmt.Errorf("auth_bypass_lookup_failed: %w", err)
	}

	principal := SyntheticAdministrator()
	account := &User{
		ID:           principal.UserID,
		Name:         principal.Name,
		Email:        principal.Email,
		PasswordHash: bypassPasswordHash,
		Role:         principal.Role,
	}
	if err := users.Create(context, account); err != nil {
		return fmt.Errorf("auth_bypass_create_failed: %w", err)
	}
	return nil
}
