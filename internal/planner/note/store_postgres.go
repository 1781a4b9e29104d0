// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

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

// PostgresRepository implements [Repository] on planner.note.
type PostgresRepository struct {
	db postgres.Querier
}

// NewRepository constructs a PostgreSQL backed note store.
func NewRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var noteColumns = strings.Join(schema.PlannerNote.Columns(), ", ")

func scanNote(row pgx.Row, note *Note, extra ...any) error {
	return row.Scan(append([]any{
		&note.ID, &note.UserID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt,
	}, extra...)...)
}

func (repository *PostgresRepository) Create(context context.Context, note *Note) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.PlannerNote.Table,
		schema.PlannerNote.ID, schema.PlannerNote.UserID, schema.PlannerNote.Title, schema.PlannerNote.Content,
		schema.PlannerNote.CreatedAt, schema.PlannerNote.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, note.ID, note.UserID, note.Title, note.Content).
		Scan(&note.CreatedAt, &note.UpdatedAt)
	return dberr.Wrap(err, "create_note")
}

func (repository *PostgresRepository) FindByID(context context.Context, userID, id string) (*Note, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		noteColumns, schema.PlannerNote.Table, schema.PlannerNote.ID, schema.PlannerNote.UserID)

	note := &Note{}
	if err := dberr.Wrap(scanNote(repository.db.QueryRow(context, query, id, userID), note), "find_note"); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// List returns the owner's notes, most recently edited first.
func (repository *PostgresRepository) List(context context.Context, userID string, limit, offset int) ([]*Note, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3`,
		noteColumns, schema.PlannerNote.Table, schema.PlannerNote.UserID,
		schema.PlannerNote.UpdatedAt, schema.PlannerNote.ID,
	)

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_notes")
	}
	defer rows.Close()

	notes := make([]*Note, 0, limit)
	total := 0
	for rows.Next() {
		note := &Note{}
		if err := scanNote(rows, note, &total); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_note")
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_notes")
	}

	if len(notes) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.PlannerNote.Table, schema.PlannerNote.UserID)
		if err := repository.db.QueryRow(context, countQuery, userID).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_notes")
		}
	}

	return notes, total, nil
}

func (repository *PostgresRepository) Update(context context.Context, note *Note) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s`,
		schema.PlannerNote.Table,
		schema.PlannerNote.Title, schema.PlannerNote.Content, schema.PlannerNote.UpdatedAt,
		schema.PlannerNote.ID, schema.PlannerNote.UserID,
		schema.PlannerNote.UpdatedAt,
	)

	err := dberr.Wrap(repository.db.QueryRow(context, query, note.ID, note.UserID, note.Title, note.Content).Scan(&note.UpdatedAt), "update_note")
	if errors.Is(err, dberr.ErrNotFound) {
		return ErrNoteNotFound
	}
	return err
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.PlannerNote.Table, schema.PlannerNote.ID, schema.PlannerNote.UserID)

	tag, err := repository.db.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, "delete_note")
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
