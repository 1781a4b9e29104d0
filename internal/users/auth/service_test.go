// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/metrics"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/auth"
)

const (
	testSecret = "0123456789abcdef0123456789abcdef"
	testIssuer = "daybook.test"
)

// fixture wires a Service with mocked storage and a real codec.
type fixture struct {
	users    *mockUserRepository
	throttle *mockThrottle
	hasher   *sec.PasswordHasher
	codec    *sec.TokenCodec
	metrics  *metrics.Metrics
	service  *auth.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec, err := sec.NewTokenCodec([]byte(testSecret), "HS256", testIssuer)
	require.NoError(t, err)

	f := &fixture{
		users:    &mockUserRepository{},
		throttle: &mockThrottle{},
		hasher:   sec.NewPasswordHasher(bcrypt.MinCost),
		codec:    codec,
		metrics:  metrics.New(prometheus.NewRegistry(), true),
	}

	f.service, err = auth.NewService(auth.ServiceConfig{
		Users:    f.users,
		Throttle: f.throttle,
		Hasher:   f.hasher,
		Tokens:   codec,
		Policy:   sec.MustNewPolicy(sec.DefaultGrants()),
		TokenTTL: 15 * time.Minute,
		Metrics:  f.metrics,
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) user(t *testing.T, role sec.Role, password string) *auth.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &auth.User{ID: "0190a0c0-1111-7000-8000-000000000001", Name: "Alice", Email: "alice@example.com", PasswordHash: hash, Role: role}
}

/*
TestService_Login_Success verifies email normalisation, scope narrowing and
counter reset on a correct password.
*/
func TestService_Login_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, sec.RoleUser, "correct-horse")

	f.throttle.On("Locked", ctx, "alice@example.com").Return(false, time.Duration(0), nil)
	f.users.On("FindByEmail", ctx, "alice@example.com").Return(user, nil)
	f.throttle.On("Reset", ctx, "alice@example.com").Return(nil)

	token, err := f.service.Login(ctx, auth.LoginInput{
		Email:    "  Alice@Example.COM ",
		Password: "correct-horse",
		Scopes:   sec.NewScopeSet(sec.ScopeTasksRead, sec.ScopeUsersWrite),
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", token.TokenType)
	assert.Equal(t, sec.NewScopeSet(sec.ScopeTasksRead), token.Scopes)

	verified, err := f.codec.Verify(token.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.Subject)
	assert.Equal(t, token.Scopes, verified.Scopes)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthLoginsTotal))
	f.users.AssertExpectations(t)
	f.throttle.AssertExpectations(t)
}

/*
TestService_Login_EmptyScopeRequest verifies an empty request receives the
role's full allowance.
*/
func TestService_Login_EmptyScopeRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.throttle.On("Locked", ctx, mock.Anything).Return(false, time.Duration(0), nil)
	f.users.On("FindByEmail", ctx, "alice@example.com").Return(f.user(t, sec.RoleAdministrator, "correct-horse"), nil)
	f.throttle.On("Reset", ctx, mock.Anything).Return(nil)

	token, err := f.service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, sec.Universe(), token.Scopes)
}

/*
TestService_Login_GenericFailure verifies unknown email and wrong password
produce the same error and both count towards the lockout.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fixture)
	}{
		{
			name: "unknown email",
			setup: func(f *fixture) {
				f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, auth.ErrUserNotFound)
			},
		},
		{
			name: "wrong password",
			setup: func(f *fixture) {
				user := &auth.User{ID: "u1", Email: "ghost@example.com", Role: sec.RoleUser}
				hash, _ := f.hasher.Hash("something-else")
				user.PasswordHash = hash
				f.users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(user, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.throttle.On("Locked", mock.Anything, "ghost@example.com").Return(false, time.Duration(0), nil)
			f.throttle.On("RecordFailure", mock.Anything, "ghost@example.com").Return(int64(1), nil)
			tt.setup(f)

			token, err := f.service.Login(context.Background(), auth.LoginInput{Email: "ghost@example.com", Password: "guess-guess"})
			assert.Nil(t, token)
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
			assert.Equal(t, "Bearer", appErr.Challenge)

			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AuthFailuresTotal.WithLabelValues(metrics.ReasonInvalidCredentials)))
			f.throttle.AssertCalled(t, "RecordFailure", mock.Anything, "ghost@example.com")
			f.throttle.AssertNotCalled(t, "Reset", mock.Anything, mock.Anything)
		})
	}
}

/*
TestService_Login_LockedOut verifies a locked email is refused before any
password check.
*/
func TestService_Login_LockedOut(t *testing.T) {
	f := newFixture(t)
	f.throttle.On("Locked", mock.Anything, "alice@example.com").Return(true, 90*time.Second, nil)

	_, err := f.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "correct-horse"})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
	assert.Equal(t, 90, appErr.RetryAfter)
	f.users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

/*
TestService_Login_LockoutPerClient verifies that repeated failures from one
address lock only that address, and the owner still signs in from another.
*/
func TestService_Login_LockoutPerClient(t *testing.T) {
	f := newFixture(t)
	_, client := newMiniredis(t)

	service, err := auth.NewService(auth.ServiceConfig{
		Users:    f.users,
		Throttle: auth.NewLoginThrottle(client, 3, 15*time.Minute),
		Hasher:   f.hasher,
		Tokens:   f.codec,
		Policy:   sec.MustNewPolicy(sec.DefaultGrants()),
		TokenTTL: 15 * time.Minute,
		Metrics:  f.metrics,
	})
	require.NoError(t, err)

	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(f.user(t, sec.RoleUser, "correct-horse"), nil)
	ctx := context.Background()

	for range 3 {
		_, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "guess", ClientIP: "198.51.100.9"})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	}

	_, err = service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "correct-horse", ClientIP: "198.51.100.9"})
	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, apperr.As(err).HTTPStatus)

	token, err := service.Login(ctx, auth.LoginInput{Email: "alice@example.com", Password: "correct-horse", ClientIP: "203.0.113.7"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
}

func TestAttemptKey(t *testing.T) {
	assert.Equal(t, "alice@example.com", auth.AttemptKey("alice@example.com", ""))
	assert.Equal(t, "alice@example.com|203.0.113.7", auth.AttemptKey("alice@example.com", "203.0.113.7"))
}

/*
TestService_Login_ThrottleUnavailable verifies Redis failures never block a
correct login.
*/
func TestService_Login_ThrottleUnavailable(t *testing.T) {
	f := newFixture(t)
	redisDown := errors.New("connection refused")

	f.throttle.On("Locked", mock.Anything, mock.Anything).Return(false, time.Duration(0), redisDown)
	f.throttle.On("Reset", mock.Anything, mock.Anything).Return(redisDown)
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(f.user(t, sec.RoleUser, "correct-horse"), nil)

	token, err := f.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
}

func TestService_Login_UnmappedRole(t *testing.T) {
	f := newFixture(t)
	f.throttle.On("Locked", mock.Anything, mock.Anything).Return(false, time.Duration(0), nil)
	f.users.On("FindByEmail", mock.Anything, mock.Anything).Return(f.user(t, sec.Role("superuser"), "correct-horse"), nil)

	_, err := f.service.Login(context.Background(), auth.LoginInput{Email: "alice@example.com", Password: "correct-horse"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sec.ErrUnmappedRole)
	assert.Equal(t, http.StatusInternalServerError, apperr.As(err).HTTPStatus)
}

/*
TestService_Register verifies hashing, normalisation and the default role.
*/
func TestService_Register(t *testing.T) {
	f := newFixture(t)
	telegramID := int64(12345)

	var stored *auth.User
	f.users.On("Create", mock.Anything, mock.AnythingOfType("*auth.User")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*auth.User) }).
		Return(nil)

	user, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name:       "Bob",
		Email:      " Bob@Example.com",
		Password:   "long-enough-password",
		TelegramID: &telegramID,
	})
	require.NoError(t, err)

	assert.Same(t, stored, user)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotEqual(t, "long-enough-password", user.PasswordHash)
	assert.True(t, f.hasher.Verify("long-enough-password", user.PasswordHash))
}

func TestService_Register_Conflict(t *testing.T) {
	f := newFixture(t)
	duplicate := &dberr.ConstraintError{Kind: dberr.ErrDuplicateKey, Constraint: "account_email_key", Action: "create_user"}
	f.users.On("Create", mock.Anything, mock.Anything).Return(duplicate)

	_, err := f.service.Register(context.Background(), auth.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "long-enough-password",
	})

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
	assert.NotContains(t, appErr.Message, "email")
}

func TestService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input auth.RegisterInput
		field string
	}{
		{"missing name", auth.RegisterInput{Email: "a@b.co", Password: "long-enough"}, auth.FieldName},
		{"bad email", auth.RegisterInput{Name: "A", Email: "nope", Password: "long-enough"}, auth.FieldEmail},
		{"short password", auth.RegisterInput{Name: "A", Email: "a@b.co", Password: "short"}, auth.FieldPassword},
		{"unknown role", auth.RegisterInput{Name: "A", Email: "a@b.co", Password: "long-enough", Role: "root"}, auth.FieldRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.service.Register(context.Background(), tt.input)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			require.NotEmpty(t, appErr.Details)
			assert.Equal(t, tt.field, appErr.Details[0].Field)
			f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}
