// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUserNotFound is returned by lookups that match no account.
var ErrUserNotFound = errors.New("auth: user not found")

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account registered under a normalised email.

		Returns:
		  - *User: Hydrated entity
		  - error: ErrUserNotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new account.

		Returns:
		  - error: dberr.ErrDuplicateKey when email or telegram id is taken
	*/
	Create(context context.Context, user *User) error

	/*
		List returns one page of accounts matching filter plus the total match count.
	*/
	List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error)
}

// # Volatile Data Access

// LoginThrottle counts failed logins per email within a sliding lockout window.
type LoginThrottle interface {

	/*
		Locked reports whether the attempt key has reached the failure limit.

		Returns:
		  - time.Duration: Remaining lockout when locked
		  - error: Store failures (callers fail open)
	*/
	Locked(context context.Context, key string) (bool, time.Duration, error)

	// RecordFailure increments the counter and returns the new count.
	RecordFailure(context context.Context, key string) (int64, error)

	// Reset clears the counter after a successful login.
	Reset(context context.Context, key string) error
}
