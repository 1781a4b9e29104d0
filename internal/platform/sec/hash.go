// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies account credentials with bcrypt.
//
// # Cost
//
// The work factor is fixed at construction. Values outside bcrypt's accepted
// range fall back to [bcrypt.DefaultCost] so a bad setting never produces
// weak hashes.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost reports the effective bcrypt work factor.
func (hasher *PasswordHasher) Cost() int {
	return hasher.cost
}

// Hash returns a salted bcrypt hash of the plain-text password.
func (hasher *PasswordHasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), hasher.cost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify reports whether existingHash was produced from plainTextPassword.
// A malformed or truncated hash is a mismatch, never an error.
func (hasher *PasswordHasher) Verify(plainTextPassword, existingHash string) bool {
	if existingHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
