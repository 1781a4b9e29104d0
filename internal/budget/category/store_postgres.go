// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

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

// PostgresRepository implements [Repository] on budget.category.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed category store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var categoryColumns = strings.Join(schema.BudgetCategory.Columns(), ", ")

func scanCategory(row pgx.Row, category *Category, extra ...any) error {
	return row.Scan(append([]any{
		&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.CreatedAt, &category.UpdatedAt,
	}, extra...)...)
}

func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Category, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		categoryColumns, schema.BudgetCategory.Table, schema.BudgetCategory.Name)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0, limit)
	total := 0
	for rows.Next() {
		category := &Category{}
		if err := scanCategory(rows, category, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_categories")
	}

	if len(categories) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.BudgetCategory.Table)
		if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_categories")
		}
	}

	return categories, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Category, error) {
	return repository.findOne(context, "find_category_by_id", schema.BudgetCategory.ID, id)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Category, error) {
	return repository.findOne(context, "find_category_by_slug", schema.BudgetCategory.Slug, slug)
}

func (repository *PostgresRepository) findOne(context context.Context, action, column string, value string) (*Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, categoryColumns, schema.BudgetCategory.Table, column)

	category := &Category{}
	if err := dberr.Wrap(scanCategory(repository.db.QueryRow(context, query, value), category), action); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (repository *PostgresRepository) Create(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.BudgetCategory.Table,
		schema.BudgetCategory.ID, schema.BudgetCategory.Name, schema.BudgetCategory.Slug, schema.BudgetCategory.Description,
		schema.BudgetCategory.CreatedAt, schema.BudgetCategory.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, category.ID, category.Name, category.Slug, category.Description).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	return dberr.Wrap(err, "create_category")
}

func (repository *PostgresRepository) Update(context context.Context, category *Category) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		schema.BudgetCategory.Table,
		schema.BudgetCategory.Name, schema.BudgetCategory.Slug, schema.BudgetCategory.Description, schema.BudgetCategory.UpdatedAt,
		schema.BudgetCategory.ID,
		schema.BudgetCategory.UpdatedAt,
	)

	err := dberr.Wrap(repository.db.QueryRow(context, query,
		category.ID, category.Name, category.Slug, category.Description,
	).Scan(&category.UpdatedAt), "update_category")
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrCategoryNotFound
	}
	return err
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.BudgetCategory.Table, schema.BudgetCategory.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
