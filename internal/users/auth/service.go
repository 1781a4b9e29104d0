// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/metrics"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// # Contracts & Types

// ErrInvalidCredentials is returned for an unknown email and a wrong password
// alike, so responses never reveal which accounts exist.
var ErrInvalidCredentials = apperr.Unauthorized("Incorrect username or password").WithChallenge("Bearer")

// errAccountExists is the generic conflict for duplicate email or telegram id.
var errAccountExists = apperr.Conflict("An account with these details already exists")

// TokenIssuer signs access tokens. Satisfied by [*sec.TokenCodec].
type TokenIssuer interface {
	Issue(subject string, scopes sec.ScopeSet, ttl time.Duration) (string, time.Time, error)
}

// Service implements the login and registration use cases.
//
// # Review Process
//
// This service is critical for security. Any change to hashing, scope
// granting or the lockout must keep the generic credential error intact.
type Service struct {
	userRepository UserRepository
	throttle       LoginThrottle
	hasher         *sec.PasswordHasher
	tokens         TokenIssuer
	policy         *sec.Policy
	tokenTTL       time.Duration
	metrics        *metrics.Metrics
	logger         *slog.Logger

	// dummyHash is verified against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// ServiceConfig bundles the collaborators of [Service].
type ServiceConfig struct {
	Users    UserRepository
	Throttle LoginThrottle
	Hasher   *sec.PasswordHasher
	Tokens   TokenIssuer
	Policy   *sec.Policy
	TokenTTL time.Duration
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// NewService constructs a [Service]. It fails when the dummy hash cannot be
// computed or the TTL is not positive.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.TokenTTL <= 0 {
		return nil, sec.ErrInvalidTTL
	}

	dummyHash, err := cfg.Hasher.Hash(uuidv7.New())
	if err != nil {
		return nil, fmt.Errorf("auth_service_dummy_hash_failed: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		userRepository: cfg.Users,
		throttle:       cfg.Throttle,
		hasher:         cfg.Hasher,
		tokens:         cfg.Tokens,
		policy:         cfg.Policy,
		tokenTTL:       cfg.TokenTTL,
		metrics:        cfg.Metrics,
		logger:         logger,
		dummyHash:      dummyHash,
	}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string

	// Scopes requested by the client; empty means "everything my role allows".
	Scopes sec.ScopeSet

	// ClientIP scopes the lockout counter. Empty counts per email only.
	ClientIP string
}

// AttemptKey names the lockout counter for one email and client address.
// Failures from one address never lock the account for other addresses.
func AttemptKey(email, clientIP string) string {
	if clientIP == "" {
		return email
	}
	return email + "|" + clientIP
}

/*
Login verifies credentials and issues a scoped access token.

Description: The email is normalised before lookup. Unknown email and wrong
password both yield [ErrInvalidCredentials]. Granted scopes are the request
narrowed to what the account's role allows.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AccessToken: Signed token with its granted scopes and expiry
  - error: ErrInvalidCredentials, RateLimited (lockout) or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AccessToken, error) {
	email := NormalizeEmail(input.Email)
	attemptKey := AttemptKey(email, input.ClientIP)
	logger := service.logger.With(slog.String("email", email))

	// 1. Lockout check. Store failures fail open.
	locked, remaining, err := service.throttle.Locked(context, attemptKey)
	if err != nil {
		logger.WarnContext(context, "auth_login_throttle_unavailable", slog.Any("error", err))
	}
	if locked {
		service.metrics.AuthFailure(metrics.ReasonLockedOut)
		logger.WarnContext(context, "auth_login_locked_out", slog.Duration("remaining", remaining))
		return nil, apperr.RateLimited(retryAfterSeconds(remaining))
	}

	// 2. Lookup and password check share one failure path.
	user, err := service.userRepository.FindByEmail(context, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		service.hasher.Verify(input.Password, service.dummyHash)
		return nil, service.rejectLogin(context, logger, attemptKey, "unknown_email")
	case err != nil:
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	if !service.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, service.rejectLogin(context, logger, attemptKey, "wrong_password")
	}

	// 3. Scope negotiation
	allowed, err := service.policy.ScopesForRole(user.Role)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_role_failed: %w", err))
	}
	granted := sec.Grant(input.Scopes, allowed)

	// 4. Token issuance
	token, expiresAt, err := service.tokens.Issue(user.ID, granted, service.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_login_issue_failed: %w", err))
	}

	if err := service.throttle.Reset(context, attemptKey); err != nil {
		logger.WarnContext(context, "auth_login_throttle_reset_failed", slog.Any("error", err))
	}

	service.metrics.LoginSucceeded()
	logger.InfoContext(context, "auth_login_succeeded",
		slog.String("user_id", user.ID),
		slog.String("scopes", granted.String()),
	)

	return &AccessToken{
		Token:     token,
		TokenType: constants.TokenTypeBearer,
		Scopes:    granted,
		ExpiresAt: expiresAt,
	}, nil
}

// rejectLogin records a failed attempt and returns the generic error.
// The reason is logged server-side only.
func (service *Service) rejectLogin(context context.Context, logger *slog.Logger, attemptKey, reason string) error {
	service.metrics.AuthFailure(metrics.ReasonInvalidCredentials)

	failures, err := service.throttle.RecordFailure(context, attemptKey)
	if err != nil {
		logger.WarnContext(context, "auth_login_throttle_unavailable", slog.Any("error", err))
	}

	logger.WarnContext(context, "auth_login_failed",
		slog.String("reason", reason),
		slog.Int64("failures", failures),
	)

	return ErrInvalidCredentials
}

func retryAfterSeconds(remaining time.Duration) int {
	seconds := int((remaining + time.Second - 1) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

// # Registration Flow

// RegisterInput holds the data required to create an account.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	TelegramID *int64

	// Role defaults to [sec.RoleUser] when empty.
	Role sec.Role
}

/*
Register validates, hashes, and persists a new account.

Description: The email is normalised before storage. A duplicate email or
telegram id yields a generic Conflict and leaves no record behind.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Validation, Conflict or storage failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	role := input.Role
	if role == "" {
		role = sec.RoleUser
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 255).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPassword, len(input.Password) > MaxPasswordBytes, fmt.Sprintf("Maximum %d bytes", MaxPasswordBytes)).
		Custom(FieldRole, !role.IsValid(), "Unknown role").
		Custom(FieldTelegramID, input.TelegramID != nil && *input.TelegramID <= 0, "Must be a positive integer")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := service.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
		TelegramID:   input.TelegramID,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if errors.Is(err, dberr.ErrDuplicateKey) {
			service.logger.InfoContext(context, "auth_register_conflict",
				slog.String("email", email),
				slog.String("constraint", dberr.ConstraintName(err)),
			)
			return nil, errAccountExists
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.logger.InfoContext(context, "auth_register_succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	return user, nil
}
