// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account exposes the user directory: administrative listing and
creation of accounts, and the caller's own identity.

Accounts are stored by the auth package; this package only reads them through
[Directory] and creates them through [Registrar], so password hashing and
email normalisation live in one place.
*/
package account

import (
	"context"
	"time"

	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/auth"
)

// Query keys accepted by GET /users.
const (
	FilterID            = "id"
	FilterTelegramID    = "telegram_id"
	FilterRole          = "role"
	FilterEmail         = "email"
	FilterEmailContains = "email__contains"
	FilterName          = "name"
	FilterNameContains  = "name__contains"
)

// Directory is the read side of account storage.
type Directory interface {
	FindByID(context context.Context, id string) (*auth.User, error)
	List(context context.Context, filter auth.UserFilter, limit, offset int) ([]*auth.User, int, error)
}

// Registrar creates accounts. Satisfied by [*auth.Service].
type Registrar interface {
	Register(context context.Context, input auth.RegisterInput) (*auth.User, error)
}

// Profile is the caller's own account together with the scopes its token
// currently grants.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       sec.Role  `json:"role"`
	TelegramID *int64    `json:"telegram_id,omitempty"`
	Scopes     []string  `json:"scopes"`
	Synthetic  bool      `json:"synthetic,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

func newProfile(user *auth.User, principal *sec.Principal) *Profile {
	return &Profile{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		TelegramID: user.TelegramID,
		Scopes:     principal.Scopes.Strings(),
		CreatedAt:  user.CreatedAt,
	}
}
