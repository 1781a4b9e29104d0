// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: token issuer, header names and Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "daybook-api"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often idle IP entries are swept.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the default 'iss' claim in access tokens.
	AuthIssuer = "daybook.app"

	// AuthRealm is announced in WWW-Authenticate challenges.
	AuthRealm = "daybook"

	// TokenTypeBearer is the OAuth2 token_type returned by the login endpoint.
	TokenTypeBearer = "bearer"

	// GrantTypePassword is the only OAuth2 grant the login endpoint accepts.
	GrantTypePassword = "password"
)

// # HTTP Headers

const (
	HeaderAuthorization   = "Authorization"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderXRequestID      = "X-Request-ID"
	HeaderXRealIP         = "X-Real-IP"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderOrigin          = "Origin"
	HeaderRetryAfter      = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldError   = "error"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldVersion = "version"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaPlanner = "planner"
	SchemaBudget  = "budget"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixLoginFailures counts failed logins per normalised email and client IP.
	RedisPrefixLoginFailures = "auth:login_failures:"
)

// # Defaults

const (
	// DefaultCurrency is applied to expenses created without a currency.
	DefaultCurrency = "RUB"

	// DateLayout is the wire format for calendar dates (expense dates, filters).
	DateLayout = "2006-01-02"
)
