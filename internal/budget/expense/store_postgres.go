// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package expense

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/daybook/internal/platform/database/schema"
	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/postgres"
)

// Database is the connection surface the repository needs: statements and
// transactions. Satisfied by [pgxpool.Pool] and [pgx.Tx].
type Database interface {
	postgres.Querier
	postgres.TxBeginner
}

// PostgresRepository implements [Repository] on budget.expense.
type PostgresRepository struct {
	db Database
}

// NewRepository constructs a PostgreSQL backed expense store.
func NewRepository(db Database) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// expenseColumns are qualified with the "e" alias used by every query.
var expenseColumns = "e." + strings.Join(schema.BudgetExpense.Columns(), ", e.")

func scanExpense(row pgx.Row, expense *Expense, extra ...any) error {
	return row.Scan(append([]any{
		&expense.ID, &expense.UserID, &expense.CategoryID, &expense.Name, &expense.Amount,
		&expense.Currency, &expense.Tag, &expense.Shared, &expense.ExpenseDate,
		&expense.CreatedAt, &expense.UpdatedAt,
	}, extra...)...)
}

func notFound(err error, action string) error {
	err = dberr.Wrap(err, action)
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrExpenseNotFound
	}
	return err
}

/*
WithinTx runs fn inside one transaction.

Description: Inside fn every repository call shares the transaction; it
commits when fn returns nil.
*/
func (repository *PostgresRepository) WithinTx(context context.Context, fn func(Repository) error) error {
	return postgres.WithTx(context, repository.db, func(querier postgres.Querier) error {
		return fn(NewRepository(querier.(Database)))
	})
}

func (repository *PostgresRepository) CategoryExists(context context.Context, categoryID string) (bool, error) {
	query := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR SHARE`,
		schema.BudgetCategory.Table, schema.BudgetCategory.ID)

	var found int
	err := dberr.Wrap(repository.db.QueryRow(context, query, categoryID).Scan(&found), "check_category")
	switch {
	case errors.Is(err, dberr.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (repository *PostgresRepository) Create(context context.Context, expense *Expense) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.BudgetExpense.Table,
		schema.BudgetExpense.ID, schema.BudgetExpense.UserID, schema.BudgetExpense.CategoryID,
		schema.BudgetExpense.Name, schema.BudgetExpense.Amount, schema.BudgetExpense.Currency,
		schema.BudgetExpense.Tag, schema.BudgetExpense.IsShared, schema.BudgetExpense.ExpenseDate,
		schema.BudgetExpense.CreatedAt, schema.BudgetExpense.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		expense.ID, expense.UserID, expense.CategoryID, expense.Name, expense.Amount,
		expense.Currency, expense.Tag, expense.Shared, expense.ExpenseDate,
	).Scan(&expense.CreatedAt, &expense.UpdatedAt)

	return dberr.Wrap(err, "create_expense")
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Expense, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s e WHERE e.%s = $1 AND e.%s = $2`,
		expenseColumns, schema.BudgetExpense.Table, schema.BudgetExpense.ID, schema.BudgetExpense.UserID)

	expense := &Expense{}
	if err := scanExpense(repository.db.QueryRow(context, query, id, userID), expense); err != nil {
		return nil, notFound(err, "find_expense")
	}
	return expense, nil
}

func (repository *PostgresRepository) FindByName(context context.Context, userID, name string) (*Expense, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s e
		WHERE e.%s = $1 AND e.%s = $2
		ORDER BY e.%s DESC, e.%s DESC
		LIMIT 1`,
		expenseColumns, schema.BudgetExpense.Table,
		schema.BudgetExpense.Name, schema.BudgetExpense.UserID,
		schema.BudgetExpense.ExpenseDate, schema.BudgetExpense.CreatedAt)

	expense := &Expense{}
	if err := scanExpense(repository.db.QueryRow(context, query, name, userID), expense); err != nil {
		return nil, notFound(err, "find_expense_by_name")
	}
	return expense, nil
}

/*
List returns the owner's expenses matching filter.

Description: The category filter joins the catalogue on slug; the date range
is inclusive on both ends. Totals come from COUNT(*) OVER().
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Expense, int, error) {
	var fromBuilder strings.Builder
	args := []any{filter.UserID}

	fromBuilder.WriteString(fmt.Sprintf(" FROM %s e", schema.BudgetExpense.Table))
	if filter.CategorySlug != nil {
		args = append(args, *filter.CategorySlug)
		fromBuilder.WriteString(fmt.Sprintf(" JOIN %s c ON c.%s = e.%s AND c.%s = $%d",
			schema.BudgetCategory.Table, schema.BudgetCategory.ID, schema.BudgetExpense.CategoryID,
			schema.BudgetCategory.Slug, len(args)))
	}
	fromBuilder.WriteString(fmt.Sprintf(" WHERE e.%s = $1", schema.BudgetExpense.UserID))
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		fromBuilder.WriteString(fmt.Sprintf(" AND e.%s >= $%d", schema.BudgetExpense.ExpenseDate, len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		fromBuilder.WriteString(fmt.Sprintf(" AND e.%s <= $%d", schema.BudgetExpense.ExpenseDate, len(args)))
	}
	from := fromBuilder.String()

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count%s ORDER BY e.%s DESC, e.%s DESC LIMIT $%d OFFSET $%d`,
		expenseColumns, from, schema.BudgetExpense.ExpenseDate, schema.BudgetExpense.CreatedAt, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_expenses")
	}
	defer rows.Close()

	expenses := make([]*Expense, 0, limit)
	total := 0
	for rows.Next() {
		expense := &Expense{}
		if err := scanExpense(rows, expense, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_expense")
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_expenses")
	}

	if len(expenses) == 0 && offset > 0 {
		if err := repository.db.QueryRow(context, "SELECT COUNT(*)"+from, args...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_expenses")
		}
	}

	return expenses, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, expense *Expense) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.BudgetExpense.Table,
		schema.BudgetExpense.CategoryID, schema.BudgetExpense.Name, schema.BudgetExpense.Amount,
		schema.BudgetExpense.Currency, schema.BudgetExpense.Tag, schema.BudgetExpense.IsShared,
		schema.BudgetExpense.ExpenseDate, schema.BudgetExpense.UpdatedAt,
		schema.BudgetExpense.ID, schema.BudgetExpense.UserID,
		schema.BudgetExpense.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		expense.ID, expense.UserID, expense.CategoryID, expense.Name, expense.Amount,
		expense.Currency, expense.Tag, expense.Shared, expense.ExpenseDate,
	).Scan(&expense.UpdatedAt)

	return notFound(err, "update_expense")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.BudgetExpense.Table, schema.BudgetExpense.ID, schema.BudgetExpense.UserID)

	tag, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_expense")
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}
