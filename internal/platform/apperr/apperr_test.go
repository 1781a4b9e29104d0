// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

/*
TestAppError_WithChallenge verifies that decorating a shared error leaves
the original untouched.
*/
func TestAppError_WithChallenge(t *testing.T) {
	shared := apperr.Unauthorized("Not authenticated")

	decorated := shared.WithChallenge(`Bearer scope="tasks:read"`)

	assert.Empty(t, shared.Challenge)
	assert.Equal(t, `Bearer scope="tasks:read"`, decorated.Challenge)
	assert.Equal(t, http.StatusUnauthorized, decorated.HTTPStatus)
}

/*
TestAs verifies extraction of an AppError through a wrap chain.
*/
func TestAs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("task_service_create_failed: %w", apperr.Internal(cause))

	extracted := apperr.As(wrapped)
	assert.NotNil(t, extracted)
	assert.Equal(t, http.StatusInternalServerError, extracted.HTTPStatus)
	assert.ErrorIs(t, extracted, cause)

	assert.Nil(t, apperr.As(cause))
	assert.True(t, apperr.IsAppError(wrapped))
}

func TestRateLimited(t *testing.T) {
	err := apperr.RateLimited(30)

	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus)
	assert.Equal(t, 30, err.RetryAfter)
}
