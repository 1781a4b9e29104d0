// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/daybook/internal/platform/ctxkey"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Client Address

// WithClientIP returns a new context carrying the resolved client address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClientIP, ip)
}

// GetClientIP retrieves the client address, or an empty string when the
// ClientIP middleware has not run.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ctxkey.KeyClientIP).(string)
	return ip
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// WithPrincipal returns a new context carrying the resolved principal.
// When an outer [PrincipalSlot] exists, the principal is recorded there too.
func WithPrincipal(ctx context.Context, principal *sec.Principal) context.Context {
	if slot, ok := ctx.Value(ctxkey.KeyPrincipalSlot).(*PrincipalSlot); ok {
		slot.set(principal)
	}
	return context.WithValue(ctx, ctxkey.KeyPrincipal, principal)
}

// GetPrincipal retrieves the [*sec.Principal] from the context.
// It returns nil for anonymous requests.
func GetPrincipal(ctx context.Context) *sec.Principal {
	principal, ok := ctx.Value(ctxkey.KeyPrincipal).(*sec.Principal)
	if !ok {
		return nil
	}
	return principal
}

// PrincipalSlot lets an outer middleware observe the principal resolved by an
// inner one, since context values only flow downwards.
type PrincipalSlot struct {
	mu        sync.Mutex
	principal *sec.Principal
}

// WithPrincipalSlot attaches an empty slot to the context.
func WithPrincipalSlot(ctx context.Context) (context.Context, *PrincipalSlot) {
	slot := &PrincipalSlot{}
	return context.WithValue(ctx, ctxkey.KeyPrincipalSlot, slot), slot
}

// Get returns the recorded principal, or nil for anonymous requests.
func (slot *PrincipalSlot) Get() *sec.Principal {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.principal
}

func (slot *PrincipalSlot) set(principal *sec.Principal) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	slot.principal = principal
}
