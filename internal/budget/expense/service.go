// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package expense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/pointer"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// errUnknownCategory is reported on the category_id field.
var errUnknownCategory = validate.FieldError(FieldCategoryID, "Category does not exist")

// Service implements the expense use cases.
type Service struct {
	expenseRepository Repository
	logger            *slog.Logger
	now               func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{expenseRepository: repository, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to default expense_date.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// Input carries expense fields. On update, nil fields are left untouched.
type Input struct {
	Name        *string
	Amount      *float64
	Currency    *string
	CategoryID  *string
	Tag         *string
	Shared      *bool
	ExpenseDate *Date
}

// apply merges input into expense and validates the result.
func (input Input) apply(expense *Expense) error {
	expense.Name = strings.TrimSpace(pointer.Fallback(input.Name, expense.Name))
	expense.Amount = math.Round(pointer.Fallback(input.Amount, expense.Amount)*100) / 100
	expense.Currency = strings.ToUpper(strings.TrimSpace(pointer.Fallback(input.Currency, expense.Currency)))
	expense.CategoryID = strings.TrimSpace(pointer.Fallback(input.CategoryID, expense.CategoryID))
	expense.Tag = strings.TrimSpace(pointer.Fallback(input.Tag, expense.Tag))
	expense.Shared = pointer.Fallback(input.Shared, expense.Shared)
	expense.ExpenseDate = pointer.Fallback(input.ExpenseDate, expense.ExpenseDate)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, expense.Name).
		MaxLen(FieldName, expense.Name, MaxNameLength).
		Positive(FieldAmount, expense.Amount).
		Custom(FieldAmount, expense.Amount > MaxAmount, "Must not exceed 999999999999.99").
		Currency(FieldCurrency, expense.Currency).
		UUID(FieldCategoryID, expense.CategoryID).
		MaxLen(FieldTag, expense.Tag, MaxTagLength)

	return validator.Err()
}

/*
List returns one page of the owner's expenses.

Parameters:
  - filter: Filter (UserID required; category slug and date range optional)
  - params: pagination.Params

Returns:
  - []*Expense, int: The page and the total match count
  - error: Validation failure when end_date is before start_date
*/
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Expense, int, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(filter.StartDate.Time) {
		return nil, 0, validate.FieldError(FieldEndDate, "Must not be before start_date")
	}

	expenses, total, err := service.expenseRepository.List(context, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("expense_service_list_failed: %w", err)
	}
	return expenses, total, nil
}

// Get resolves ref as an expense id, or else as the name of the owner's most
// recent expense with that name.
func (service *Service) Get(context context.Context, userID, ref string) (*Expense, error) {
	if uuidv7.IsValid(ref) {
		return service.expenseRepository.FindByID(context, userID, ref)
	}
	if strings.TrimSpace(ref) == "" {
		return nil, ErrExpenseNotFound
	}
	return service.expenseRepository.FindByName(context, userID, ref)
}

/*
Create records a new expense.

Description: Missing currency defaults to RUB and a missing date to today
(UTC). The category check and the insert share one transaction.
*/
func (service *Service) Create(context context.Context, userID string, input Input) (*Expense, error) {
	expense := &Expense{
		ID:          uuidv7.New(),
		UserID:      userID,
		Currency:    constants.DefaultCurrency,
		ExpenseDate: NewDate(service.now()),
	}
	if err := input.apply(expense); err != nil {
		return nil, err
	}

	err := service.expenseRepository.WithinTx(context, func(repository Repository) error {
		if err := service.requireCategory(context, repository, expense.CategoryID); err != nil {
			return err
		}
		return repository.Create(context, expense)
	})
	if err != nil {
		return nil, service.translate(err, "expense_service_create_failed")
	}

	service.logger.InfoContext(context, "expense_created",
		slog.String("expense_id", expense.ID),
		slog.String("user_id", userID),
		slog.String("category_id", expense.CategoryID),
	)
	return expense, nil
}

// Update applies a partial change to an owned expense in one transaction.
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Expense, error) {
	if !uuidv7.IsValid(id) {
		return nil, ErrExpenseNotFound
	}

	var updated *Expense
	err := service.expenseRepository.WithinTx(context, func(repository Repository) error {
		expense, err := repository.FindByID(context, userID, id)
		if err != nil {
			return err
		}

		previousCategory := expense.CategoryID
		if err := input.apply(expense); err != nil {
			return err
		}
		if expense.CategoryID != previousCategory {
			if err := service.requireCategory(context, repository, expense.CategoryID); err != nil {
				return err
			}
		}

		if err := repository.Update(context, expense); err != nil {
			return err
		}
		updated = expense
		return nil
	})
	if err != nil {
		return nil, service.translate(err, "expense_service_update_failed")
	}
	return updated, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if !uuidv7.IsValid(id) {
		return ErrExpenseNotFound
	}
	if err := service.expenseRepository.Delete(context, userID, id); err != nil {
		return service.translate(err, "expense_service_delete_failed")
	}

	service.logger.InfoContext(context, "expense_deleted",
		slog.String("expense_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

func (service *Service) requireCategory(context context.Context, repository Repository, categoryID string) error {
	exists, err := repository.CategoryExists(context, categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return errUnknownCategory
	}
	return nil
}

// translate passes client errors through and wraps storage failures. A
// foreign key violation means the category vanished between check and write.
func (service *Service) translate(err error, action string) error {
	switch {
	case errors.Is(err, dberr.ErrForeignKey):
		return errUnknownCategory
	case apperr.IsAppError(err):
		return err
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
