// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// Keys use an unexported type so values stored here never collide with keys
// set by third-party packages, even when the underlying strings match.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal is the context key for the resolved [sec.Principal].
	KeyPrincipal key = "principal"

	// KeyPrincipalSlot is the context key for the request-wide principal holder
	// read back by the access logger.
	KeyPrincipalSlot key = "principal_slot"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyClientIP is the context key for the resolved client address.
	KeyClientIP key = "client_ip"
)
