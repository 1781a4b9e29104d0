// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package expense records spending of a single account.

Every expense references a category of the shared catalogue. Creating or
changing an expense checks the category inside the same transaction as the
write, so a category deleted concurrently cannot leave a dangling reference.
*/
package expense

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/constants"
)

const (
	FieldName        = "name"
	FieldAmount      = "amount"
	FieldCurrency    = "currency"
	FieldCategoryID  = "category_id"
	FieldTag         = "tag"
	FieldExpenseDate = "expense_date"
	FieldCategory    = "category"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"

	MaxNameLength = 255
	MaxTagLength  = 64

	// MaxAmount is the largest value NUMERIC(14,2) holds.
	MaxAmount = 999_999_999_999.99
)

// ErrExpenseNotFound is returned for missing and foreign expenses alike.
var ErrExpenseNotFound = apperr.NotFound("Expense")

// Expense is one spending record.
type Expense struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Tag         string    `json:"tag"`
	Shared      bool      `json:"shared"`
	ExpenseDate Date      `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows an expense listing. Unset fields do not restrict.
type Filter struct {
	UserID       string
	CategorySlug *string
	StartDate    *Date
	EndDate      *Date
}

// # Calendar Dates

// Date is a calendar day without time of day, written as YYYY-MM-DD in JSON
// and stored in a DATE column.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	year, month, day := t.UTC().Date()
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{parsed}, nil
}

func (d Date) String() string {
	return d.Format(constants.DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("expense date %q: %w", raw, err)
	}
	*d = parsed
	return nil
}

// ScanDate implements [pgtype.DateScanner].
func (d *Date) ScanDate(value pgtype.Date) error {
	if !value.Valid {
		return fmt.Errorf("expense date is NULL")
	}
	*d = NewDate(value.Time)
	return nil
}

// DateValue implements [pgtype.DateValuer].
func (d Date) DateValue() (pgtype.Date, error) {
	return pgtype.Date{Time: d.Time, Valid: true}, nil
}

// # Expense Data Access

// Repository defines persistence for expenses, always scoped to one owner
// except for the category check.
type Repository interface {
	Create(context context.Context, expense *Expense) error

	FindByID(context context.Context, userID, id string) (*Expense, error)

	// FindByName returns the owner's most recent expense with exactly this name.
	FindByName(context context.Context, userID, name string) (*Expense, error)

	// List returns one page ordered by expense date, newest first.
	List(context context.Context, filter Filter, limit, offset int) ([]*Expense, int, error)

	Update(context context.Context, expense *Expense) error
	Delete(context context.Context, userID, id string) error

	// CategoryExists reports whether a category id exists and keeps it from
	// being deleted until the surrounding transaction ends.
	CategoryExists(context context.Context, categoryID string) (bool, error)

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(context context.Context, fn func(Repository) error) error
}
