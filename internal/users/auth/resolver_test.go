// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/auth"
)

type resolverFixture struct {
	now      time.Time
	codec    *sec.TokenCodec
	users    *mockUserRepository
	resolver *auth.Resolver
}

func newResolverFixture(t *testing.T, bypass bool) *resolverFixture {
	t.Helper()

	f := &resolverFixture{
		now:   time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		users: &mockUserRepository{},
	}

	codec, err := sec.NewTokenCodec([]byte(testSecret), "HS256", testIssuer, sec.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.codec = codec

	f.resolver = auth.NewResolver(auth.ResolverConfig{
		Verifier: codec,
		Users:    f.users,
		Policy:   sec.MustNewPolicy(sec.DefaultGrants()),
		Bypass:   bypass,
	})
	return f
}

func (f *resolverFixture) issue(t *testing.T, subject string, scopes ...sec.Scope) string {
	t.Helper()
	token, _, err := f.codec.Issue(subject, sec.NewScopeSet(scopes...), time.Hour)
	require.NoError(t, err)
	return token
}

func requireAppError(t *testing.T, err error, status int) *apperr.AppError {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected *apperr.AppError, got %v", err)
	assert.Equal(t, status, appErr.HTTPStatus)
	return appErr
}

func TestResolver_Success(t *testing.T) {
	f := newResolverFixture(t, false)
	user := &auth.User{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: sec.RoleUser}
	f.users.On("FindByID", mock.Anything, "user-1").Return(user, nil)

	token := f.issue(t, "user-1", sec.ScopeTasksRead, sec.ScopeTasksWrite)

	principal, err := f.resolver.Resolve(context.Background(), token, []sec.Scope{sec.ScopeTasksRead})
	require.NoError(t, err)

	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, sec.RoleUser, principal.Role)
	assert.Equal(t, sec.NewScopeSet(sec.ScopeTasksRead, sec.ScopeTasksWrite), principal.Scopes)
	assert.False(t, principal.Synthetic)
}

/*
TestResolver_RoleNarrowsTokenScopes verifies a token minted while the account
was an administrator loses admin scopes once the role changes.
*/
func TestResolver_RoleNarrowsTokenScopes(t *testing.T) {
	f := newResolverFixture(t, false)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&auth.User{ID: "user-1", Role: sec.RoleUser}, nil)

	token := f.issue(t, "user-1", sec.ScopeUsersRead, sec.ScopeMeRead)

	principal, err := f.resolver.Resolve(context.Background(), token, nil)
	require.NoError(t, err)
	assert.Equal(t, sec.NewScopeSet(sec.ScopeMeRead), principal.Scopes)

	_, err = f.resolver.Resolve(context.Background(), token, []sec.Scope{sec.ScopeUsersRead})
	appErr := requireAppError(t, err, http.StatusForbidden)
	assert.Equal(t, `Bearer scope="users:read", error="insufficient_scope"`, appErr.Challenge)
}

func TestResolver_InsufficientScope(t *testing.T) {
	f := newResolverFixture(t, false)
	f.users.On("FindByID", mock.Anything, "user-1").Return(&auth.User{ID: "user-1", Role: sec.RoleAdministrator}, nil)

	token := f.issue(t, "user-1", sec.ScopeNoteRead)

	_, err := f.resolver.Resolve(context.Background(), token, []sec.Scope{sec.ScopeNoteRead, sec.ScopeNoteDelete})
	appErr := requireAppError(t, err, http.StatusForbidden)
	assert.Equal(t, `Bearer scope="note:read note:delete", error="insufficient_scope"`, appErr.Challenge)
}

func TestResolver_MissingToken(t *testing.T) {
	f := newResolverFixture(t, false)

	_, err := f.resolver.Resolve(context.Background(), "", []sec.Scope{sec.ScopeMeRead})
	appErr := requireAppError(t, err, http.StatusUnauthorized)
	assert.Equal(t, `Bearer scope="me:read"`, appErr.Challenge)

	_, err = f.resolver.Resolve(context.Background(), "", nil)
	appErr = requireAppError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "Bearer", appErr.Challenge)
}

func TestResolver_InvalidTokens(t *testing.T) {
	f := newResolverFixture(t, false)
	valid := f.issue(t, "user-1", sec.ScopeMeRead)

	other, err := sec.NewTokenCodec([]byte("another-secret-another-secret-xx"), "HS256", testIssuer, sec.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	forged, _, err := other.Issue("user-1", sec.NewScopeSet(sec.ScopeMeRead), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{"malformed", "not-a-token", f.now},
		{"bad signature", forged, f.now},
		{"expired", valid, f.now.Add(2 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.now = tt.at
			_, err := f.resolver.Resolve(context.Background(), tt.token, []sec.Scope{sec.ScopeMeRead})
			appErr := requireAppError(t, err, http.StatusUnauthorized)
			assert.Equal(t, `Bearer scope="me:read", error="invalid_token"`, appErr.Challenge)
		})
	}

	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestResolver_UnknownSubject(t *testing.T) {
	f := newResolverFixture(t, false)
	f.users.On("FindByID", mock.Anything, "deleted").Return(nil, auth.ErrUserNotFound)

	_, err := f.resolver.Resolve(context.Background(), f.issue(t, "deleted", sec.ScopeMeRead), nil)
	requireAppError(t, err, http.StatusUnauthorized)
}

func TestResolver_LookupFailure(t *testing.T) {
	f := newResolverFixture(t, false)
	f.users.On("FindByID", mock.Anything, "user-1").Return(nil, errors.New("pool closed"))

	_, err := f.resolver.Resolve(context.Background(), f.issue(t, "user-1"), nil)
	require.Error(t, err)
	assert.Nil(t, apperr.As(err))
}

func TestResolver_Bypass(t *testing.T) {
	f := newResolverFixture(t, true)
	assert.True(t, f.resolver.BypassEnabled())

	principal, err := f.resolver.Resolve(context.Background(), "", []sec.Scope{sec.ScopeUsersWrite})
	require.NoError(t, err)

	assert.True(t, principal.Synthetic)
	assert.Equal(t, auth.BypassUserID, principal.UserID)
	assert.Equal(t, sec.RoleAdministrator, principal.Role)
	assert.Equal(t, sec.Universe(), principal.Scopes)
	f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestEnsureBypassAccount(t *testing.T) {
	users := &mockUserRepository{}
	users.On("FindByID", mock.Anything, auth.BypassUserID).Return(nil, auth.ErrUserNotFound).Once()
	users.On("Create", mock.Anything, mock.MatchedBy(func(user *auth.User) bool {
		return user.ID == auth.BypassUserID && user.Role == sec.RoleAdministrator && user.PasswordHash == "!"
	})).Return(nil).Once()

	require.NoError(t, auth.EnsureBypassAccount(context.Background(), users))

	users.On("FindByID", mock.Anything, auth.BypassUserID).Return(&auth.User{ID: auth.BypassUserID}, nil)
	require.NoError(t, auth.EnsureBypassAccount(context.Background(), users))
	users.AssertNumberOfCalls(t, "Create", 1)
}
