// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuidv7 wraps google/uuid to generate and check time-ordered UUIDv7 values.
//
// Every Daybook table keys its rows by UUIDv7 so inserts stay index-friendly.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// # Safety
//
// It panics only if the OS random source is unavailable, which is an
// unrecoverable system-level failure.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
//
// Handlers use it to tell ids from slugs or names in "{ref}" path segments.
func IsValid(s string) bool {
	return uuid.Validate(s) == nil
}
