// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

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

// PostgresRepository implements [Repository] on planner.event.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed event store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var eventColumns = strings.Join(schema.PlannerEvent.Columns(), ", ")

func scanEvent(row pgx.Row, event *Event, extra ...any) error {
	return row.Scan(append([]any{
		&event.ID, &event.UserID, &event.Title, &event.Description,
		&event.StartTime, &event.EndTime, &event.CreatedAt, &event.UpdatedAt,
	}, extra...)...)
}

func notFound(err error, action string) error {
	err = dberr.Wrap(err, action)
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrEventNotFound
	}
	return err
}

func (repository *PostgresRepository) Create(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.PlannerEvent.Table,
		schema.PlannerEvent.ID, schema.PlannerEvent.UserID, schema.PlannerEvent.Title,
		schema.PlannerEvent.Description, schema.PlannerEvent.StartTime, schema.PlannerEvent.EndTime,
		schema.PlannerEvent.CreatedAt, schema.PlannerEvent.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		event.ID, event.UserID, event.Title, event.Description, event.StartTime, event.EndTime,
	).Scan(&event.CreatedAt, &event.UpdatedAt)

	return dberr.Wrap(err, "create_event")
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		eventColumns, schema.PlannerEvent.Table, schema.PlannerEvent.ID, schema.PlannerEvent.UserID)

	event := &Event{}
	if err := scanEvent(repository.db.QueryRow(context, query, id, userID), event); err != nil {
		return nil, notFound(err, "find_event")
	}
	return event, nil
}

func (repository *PostgresRepository) List(context context.Context, userID string, limit, offset int) ([]*Event, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC
		LIMIT $2 OFFSET $3`,
		eventColumns, schema.PlannerEvent.Table, schema.PlannerEvent.UserID,
		schema.PlannerEvent.StartTime, schema.PlannerEvent.ID,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}
	defer rows.Close()

	events := make([]*Event, 0, limit)
	total := 0
	for rows.Next() {
		event := &Event{}
		if err := scanEvent(rows, event, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_event")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_events")
	}

	if len(events) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.PlannerEvent.Table, schema.PlannerEvent.UserID)
		if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_events")
		}
	}

	return events, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, event *Event) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.PlannerEvent.Table,
		schema.PlannerEvent.Title, schema.PlannerEvent.Description,
		schema.PlannerEvent.StartTime, schema.PlannerEvent.EndTime, schema.PlannerEvent.UpdatedAt,
		schema.PlannerEvent.ID, schema.PlannerEvent.UserID,
		schema.PlannerEvent.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		event.ID, event.UserID, event.Title, event.Description, event.StartTime, event.EndTime,
	).Scan(&event.UpdatedAt)

	return notFound(err, "update_event")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PlannerEvent.Table, schema.PlannerEvent.ID, schema.PlannerEvent.UserID)

	tag, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_event")
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}
