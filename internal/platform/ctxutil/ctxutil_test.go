// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/daybook/internal/platform/ctxutil"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Principal verifies that the resolved principal travels through the context.
*/
func TestContext_Principal(t *testing.T) {
	ctx := context.Background()
	principal := &sec.Principal{
		UserID: "user-123",
		Role:   sec.RoleUser,
		Scopes: sec.NewScopeSet(sec.ScopeMeRead),
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetPrincipal(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithPrincipal(ctx, principal)
	retrieved := ctxutil.GetPrincipal(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "user-123", retrieved.UserID)
	assert.True(t, retrieved.HasScope(sec.ScopeMeRead))
	assert.False(t, retrieved.IsAdministrator())
}

/*
TestContext_PrincipalSlot verifies that an outer slot observes a principal
attached further down the chain.
*/
func TestContext_PrincipalSlot(t *testing.T) {
	ctx, slot := ctxutil.WithPrincipalSlot(context.Background())
	assert.Nil(t, slot.Get())

	inner := ctxutil.WithRequestID(ctx, "rid")
	_ = ctxutil.WithPrincipal(inner, &sec.Principal{UserID: "user-9"})

	if assert.NotNil(t, slot.Get()) {
		assert.Equal(t, "user-9", slot.Get().UserID)
	}
}

func TestContext_ClientIP(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetClientIP(ctx))

	ctx = ctxutil.WithClientIP(ctx, "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ctxutil.GetClientIP(ctx))
}
