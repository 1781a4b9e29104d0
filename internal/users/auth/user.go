// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements identity for the Daybook API.

It owns the user account entity, password login with scoped access tokens,
self-registration, and the resolver that turns a bearer token into a
[sec.Principal] for every protected route.

# Architecture

  - Service: Login and Register use cases.
  - Resolver: per-request token verification and scope enforcement.
  - Repository: Postgres for accounts, Redis for the login lockout counters.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/daybook/internal/platform/sec"
)

// # Domain Entities

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	TelegramID   *int64    `json:"telegram_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal converts the account into the identity attached to a request.
func (user *User) Principal(scopes sec.ScopeSet) *sec.Principal {
	return &sec.Principal{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
		Scopes: scopes,
	}
}

// UserFilter narrows account listings. Nil fields are ignored; the
// "Contains" variants match case-insensitively.
type UserFilter struct {
	ID            *string
	TelegramID    *int64
	Role          *sec.Role
	Email         *string
	EmailContains *string
	Name          *string
	NameContains  *string
}

// AccessToken is the result of a successful password login.
type AccessToken struct {
	Token     string
	TokenType string
	Scopes    sec.ScopeSet
	ExpiresAt time.Time
}

// # Field Identifiers

const (
	FieldName       = "name"
	FieldEmail      = "email"
	FieldPassword   = "password"
	FieldRole       = "role"
	FieldTelegramID = "telegram_id"
	FieldUsername   = "username"
	FieldGrantType  = "grant_type"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// NormalizeEmail returns the canonical form used for storage and lookup:
// NFC-normalised, trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(email)))
}
