// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/account"
	"github.com/taibuivan/daybook/internal/users/auth"
)

// staticResolver authenticates every request as principal.
type staticResolver struct {
	principal *sec.Principal
}

func (resolver staticResolver) Resolve(_ context.Context, _ string, required []sec.Scope) (*sec.Principal, error) {
	if missing := resolver.principal.Scopes.Missing(required...); len(missing) > 0 {
		return nil, apperr.Forbidden("Not enough permissions")
	}
	return resolver.principal, nil
}

func newRouter(directory *mockDirectory, registrar *mockRegistrar, principal *sec.Principal) http.Handler {
	service := account.NewService(directory, registrar, nil)
	return account.NewHandler(service, staticResolver{principal: principal}).Routes()
}

func TestHandler_List(t *testing.T) {
	directory := &mockDirectory{}
	admin := &sec.Principal{UserID: aliceID, Role: sec.RoleAdministrator, Scopes: sec.Universe()}
	router := newRouter(directory, &mockRegistrar{}, admin)

	directory.On("List", mock.Anything, mock.MatchedBy(func(filter auth.UserFilter) bool {
		return filter.Email != nil && *filter.Email == "bob@example.com" &&
			filter.TelegramID != nil && *filter.TelegramID == 9 &&
			filter.NameContains != nil && *filter.NameContains == "bo"
	}), 5, 10).Return([]*auth.User{{ID: "b", Email: "bob@example.com", Role: sec.RoleUser}}, 11, nil)

	request := httptest.NewRequest(http.MethodGet, "/?email=Bob@Example.com&telegram_id=9&name__contains=bo&limit=5&offset=10", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data []map[string]any `json:"data"`
		Meta struct {
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
			Total  int `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, 5, body.Meta.Limit)
	assert.Equal(t, 10, body.Meta.Offset)
	assert.Equal(t, 11, body.Meta.Total)
}

func TestHandler_List_BadTelegramID(t *testing.T) {
	admin := &sec.Principal{UserID: aliceID, Scopes: sec.Universe()}
	router := newRouter(&mockDirectory{}, &mockRegistrar{}, admin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/?telegram_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_ScopeEnforcement(t *testing.T) {
	regular := &sec.Principal{UserID: aliceID, Role: sec.RoleUser, Scopes: sec.NewScopeSet(sec.ScopeMeRead)}
	directory := &mockDirectory{}
	directory.On("FindByID", mock.Anything, aliceID).Return(&auth.User{ID: aliceID, Role: sec.RoleUser}, nil)
	router := newRouter(directory, &mockRegistrar{}, regular)

	tests := []struct {
		method string
		target string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusForbidden},
		{http.MethodPost, "/", `{}`, http.StatusForbidden},
		{http.MethodGet, "/" + aliceID, "", http.StatusForbidden},
		{http.MethodGet, "/me", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	registrar := &mockRegistrar{}
	admin := &sec.Principal{UserID: aliceID, Role: sec.RoleAdministrator, Scopes: sec.Universe()}
	router := newRouter(&mockDirectory{}, registrar, admin)

	registrar.On("Register", mock.Anything, mock.MatchedBy(func(input auth.RegisterInput) bool {
		return input.Role == sec.RoleAdministrator && input.Name == "Frank"
	})).Return(&auth.User{ID: "f", Name: "Frank", Role: sec.RoleAdministrator}, nil)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(
		`{"name":" Frank ","email":"frank@example.com","password":"long-enough","role":"administrator"}`,
	))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"administrator"`)
}
