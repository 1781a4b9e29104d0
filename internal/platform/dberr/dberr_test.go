// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/dberr"
)

/*
TestWrap verifies the classification of driver errors.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	notFound := dberr.Wrap(pgx.ErrNoRows, "find_user")
	assert.ErrorIs(t, notFound, dberr.ErrNotFound)

	duplicate := dberr.Wrap(&pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "account_email_key",
	}, "create_user")
	assert.ErrorIs(t, duplicate, dberr.ErrDuplicateKey)
	assert.NotErrorIs(t, duplicate, dberr.ErrForeignKey)
	assert.Equal(t, "account_email_key", dberr.ConstraintName(duplicate))

	foreign := dberr.Wrap(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, "create_expense")
	assert.ErrorIs(t, foreign, dberr.ErrForeignKey)

	other := dberr.Wrap(errors.New("connection refused"), "list_tasks")
	appError := apperr.As(other)
	assert.NotNil(t, appError)
	assert.Equal(t, http.StatusInternalServerError, appError.HTTPStatus)
	assert.Empty(t, dberr.ConstraintName(other))
}
