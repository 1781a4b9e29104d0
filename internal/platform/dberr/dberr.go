// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Repositories pass every pgx error through [Wrap]. Absent rows become
// [ErrNotFound], unique violations become [ErrDuplicateKey], foreign-key
// violations become [ErrForeignKey], and everything else is an internal error
// whose cause is kept for logging only.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = errors.New("dberr: row not found")

	// ErrDuplicateKey is returned on a unique-constraint violation (SQLSTATE 23505).
	ErrDuplicateKey = errors.New("dberr: duplicate key")

	// ErrForeignKey is returned when a referenced row is missing or still
	// referenced (SQLSTATE 23503).
	ErrForeignKey = errors.New("dberr: foreign key violation")
)

// ConstraintError carries the violated constraint name alongside its class.
type ConstraintError struct {
	Kind       error
	Constraint string
	Action     string
	Cause      error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %v (%s)", e.Action, e.Kind, e.Constraint)
}

// Is lets callers match on the constraint class with [errors.Is].
func (e *ConstraintError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap exposes the driver error for logging.
func (e *ConstraintError) Unwrap() error {
	return e.Cause
}

// Wrap inspects a database error and classifies it.
//
// The action name ends up in log output so failures can be traced back to
// the query that produced them.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", action, ErrNotFound)
	}

	// 2. Constraint violations reported by the server
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return &ConstraintError{Kind: ErrDuplicateKey, Constraint: pgError.ConstraintName, Action: action, Cause: err}
		case pgerrcode.ForeignKeyViolation:
			return &ConstraintError{Kind: ErrForeignKey, Constraint: pgError.ConstraintName, Action: action, Cause: err}
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// ConstraintName returns the violated constraint, or "" when err is not a
// constraint violation.
func ConstraintName(err error) string {
	var constraintError *ConstraintError
	if errors.As(err, &constraintError) {
		return constraintError.Constraint
	}
	return ""
}
