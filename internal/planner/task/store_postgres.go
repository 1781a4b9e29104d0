// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

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

// PostgresRepository implements [Repository] on planner.task.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed task store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var taskColumns = strings.Join(schema.PlannerTask.Columns(), ", ")

func scanTask(row pgx.Row, task *Task, extra ...any) error {
	return row.Scan(append([]any{
		&task.ID, &task.UserID, &task.Title, &task.Description,
		&task.IsCompleted, &task.CreatedAt, &task.UpdatedAt,
	}, extra...)...)
}

// notFound converts a missing row into [ErrTaskNotFound].
func notFound(err error, action string) error {
	err = dberr.Wrap(err, action)
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}

// Create inserts task; the database assigns both timestamps.
func (repository *PostgresRepository) Create(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.PlannerTask.Table,
		schema.PlannerTask.ID, schema.PlannerTask.UserID, schema.PlannerTask.Title,
		schema.PlannerTask.Description, schema.PlannerTask.IsCompleted,
		schema.PlannerTask.CreatedAt, schema.PlannerTask.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		task.ID, task.UserID, task.Title, task.Description, task.IsCompleted,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	return dberr.Wrap(err, "create_task")
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		taskColumns, schema.PlannerTask.Table, schema.PlannerTask.ID, schema.PlannerTask.UserID)

	task := &Task{}
	if err := scanTask(repository.db.QueryRow(context, query, id, userID), task); err != nil {
		return nil, notFound(err, "find_task")
	}
	return task, nil
}

/*
List returns the owner's tasks, newest first.

Description: The completion filter is appended only when set. The total is
read with COUNT(*) OVER() alongside the page.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Task, int, error) {
	var queryBuilder strings.Builder
	args := []any{filter.UserID}

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1`,
		taskColumns, schema.PlannerTask.Table, schema.PlannerTask.UserID,
	))

	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", schema.PlannerTask.IsCompleted, len(args)))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC", schema.PlannerTask.CreatedAt, schema.PlannerTask.ID))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))

	rows, err := repository.db.Query(context, queryBuilder.String(), append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_tasks")
	}
	defer rows.Close()

	tasks := make([]*Task, 0, limit)
	total := 0
	for rows.Next() {
		task := &Task{}
		if err := scanTask(rows, task, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_task")
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_tasks")
	}

	// Past the last page the window function has no row to report on.
	if len(tasks) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.PlannerTask.Table, schema.PlannerTask.UserID)
		countArgs := args[:1]
		if filter.Completed != nil {
			countQuery += fmt.Sprintf(" AND %s = $2", schema.PlannerTask.IsCompleted)
			countArgs = args
		}
		if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_tasks")
		}
	}

	return tasks, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s`,
		schema.PlannerTask.Table,
		schema.PlannerTask.Title, schema.PlannerTask.Description, schema.PlannerTask.IsCompleted, schema.PlannerTask.UpdatedAt,
		schema.PlannerTask.ID, schema.PlannerTask.UserID,
		schema.PlannerTask.CreatedAt, schema.PlannerTask.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		task.ID, task.UserID, task.Title, task.Description, task.IsCompleted,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	return notFound(err, "update_task")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PlannerTask.Table, schema.PlannerTask.ID, schema.PlannerTask.UserID)

	tag, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_task")
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (repository *PostgresRepository) Stats(context context.Context, userID string) (Stats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE %s)
		FROM %s WHERE %s = $1`,
		schema.PlannerTask.IsCompleted, schema.PlannerTask.Table, schema.PlannerTask.UserID)

	var total, completed int
	if err := repository.db.QueryRow(context, query, userID).Scan(&total, &completed); err != nil {
		return Stats{}, dberr.Wrap(err, "task_stats")
	}
	return NewStats(total, completed), nil
}
