// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/auth"
)

func postForm(handler http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_Token(t *testing.T) {
	f := newFixture(t)
	f.throttle.On("Locked", mock.Anything, "alice@example.com").Return(false, time.Duration(0), nil)
	f.throttle.On("Reset", mock.Anything, "alice@example.com").Return(nil)
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(f.user(t, sec.RoleUser, "correct-horse"), nil)

	router := auth.NewHandler(f.service).Routes()

	recorder := postForm(router, "/token", url.Values{
		"grant_type": {"password"},
		"username":   {"alice@example.com"},
		"password":   {"correct-horse"},
		"scope":      {"tasks:read users:read"},
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "no-store", recorder.Header().Get("Cache-Control"))

	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		Scope       string `json:"scope"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.NotEmpty(t, body.AccessToken)
	assert.Equal(t, "bearer", body.TokenType)
	assert.InDelta(t, 900, body.ExpiresIn, 2)
	assert.Equal(t, "tasks:read", body.Scope)
}

/*
TestHandler_Token_ClientIP verifies the lockout counter is keyed on the
address resolved by the ClientIP middleware.
*/
func TestHandler_Token_ClientIP(t *testing.T) {
	f := newFixture(t)
	f.throttle.On("Locked", mock.Anything, "alice@example.com|10.0.0.1").Return(false, time.Duration(0), nil)
	f.throttle.On("Reset", mock.Anything, "alice@example.com|10.0.0.1").Return(nil)
	f.users.On("FindByEmail", mock.Anything, "alice@example.com").Return(f.user(t, sec.RoleUser, "correct-horse"), nil)

	handler := middleware.ClientIP(false)(auth.NewHandler(f.service).Routes())

	form := url.Values{"username": {"alice@example.com"}, "password": {"correct-horse"}}
	request := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("X-Real-IP", "198.51.100.1")
	request.RemoteAddr = "10.0.0.1:40000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	f.throttle.AssertExpectations(t)
}

func TestHandler_Token_Rejections(t *testing.T) {
	f := newFixture(t)
	f.throttle.On("Locked", mock.Anything, mock.Anything).Return(false, time.Duration(0), nil)
	f.throttle.On("RecordFailure", mock.Anything, mock.Anything).Return(int64(1), nil)
	f.users.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, auth.ErrUserNotFound)

	router := auth.NewHandler(f.service).Routes()

	tests := []struct {
		name   string
		form   url.Values
		status int
		code   string
	}{
		{"client credentials grant", url.Values{"grant_type": {"client_credentials"}, "username": {"a@b.co"}, "password": {"x"}}, http.StatusBadRequest, "UNSUPPORTED_GRANT_TYPE"},
		{"missing password", url.Values{"username": {"a@b.co"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown account", url.Values{"username": {"nobody@example.com"}, "password": {"whatever1"}}, http.StatusUnauthorized, "UNAUTHORIZED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postForm(router, "/token", tt.form)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.code)
		})
	}

	recorder := postForm(router, "/token", url.Values{"username": {"nobody@example.com"}, "password": {"whatever1"}})
	assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))
}

func TestHandler_Register(t *testing.T) {
	f := newFixture(t)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)

	router := auth.NewHandler(f.service).Routes()

	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(
		`{"name":"Carol","email":"Carol@Example.com","password":"long-enough-password","telegram_id":42}`,
	))
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "password")

	var envelope struct {
		Data struct {
			ID         string `json:"id"`
			Email      string `json:"email"`
			Role       string `json:"role"`
			TelegramID int64  `json:"telegram_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "carol@example.com", envelope.Data.Email)
	assert.Equal(t, "user", envelope.Data.Role)
	assert.Equal(t, int64(42), envelope.Data.TelegramID)
	assert.NotEmpty(t, envelope.Data.ID)
}

func TestHandler_Register_UnknownField(t *testing.T) {
	f := newFixture(t)
	router := auth.NewHandler(f.service).Routes()

	request := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(
		`{"name":"Carol","email":"c@example.com","password":"long-enough-password","role":"administrator"}`,
	))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
