// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

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

// # User Repository

// PostgresUserRepository implements [UserRepository] on the users.account table.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userColumns is the SELECT list matching [scanUser].
var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

func scanUser(row pgx.Row, user *User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.TelegramID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

/*
Create persists a new account into users.account.

Description: The id must be set by the caller; timestamps are assigned by the
database and written back into user.

Returns:
  - error: dberr.ErrDuplicateKey (email or telegram id taken) or database errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.TelegramID,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.TelegramID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	return dberr.Wrap(err, "create_user")
}

/*
FindByEmail retrieves an account by its normalised email address.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	return repository.findOne(context, "find_user_by_email", query, email)
}

/*
FindByID retrieves an account by primary key.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	return repository.findOne(context, "find_user_by_id", query, id)
}

func (repository *PostgresUserRepository) findOne(context context.Context, action, query string, arg any) (*User, error) {
	user := &User{}
	if err := dberr.Wrap(scanUser(repository.db.QueryRow(context, query, arg), user), action); err != nil {
		if errors.Is(err, dberr.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

/*
List returns accounts matching the filter, newest first.

Description: Builds the WHERE clause dynamically from the non-nil filter
fields. The total is read with a COUNT(*) OVER() window; a page past the end
falls back to a plain count so the total stays accurate.

Returns:
  - []*User: One page of accounts (never nil)
  - int: Total number of matching accounts
*/
func (repository *PostgresUserRepository) List(context context.Context, filter UserFilter, limit, offset int) ([]*User, int, error) {
	where, args := userWhere(filter)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s
		ORDER BY %s DESC, %s DESC`,
		userColumns, schema.UserAccount.Table, where,
		schema.UserAccount.CreatedAt, schema.UserAccount.ID,
	))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))

	rows, err := repository.db.Query(context, queryBuilder.String(), append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	total := 0
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Role,
			&user.TelegramID, &user.CreatedAt, &user.UpdatedAt, &total,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	if len(users) == 0 && offset > 0 {
		countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, schema.UserAccount.Table, where)
		if err := repository.db.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, "count_users")
		}
	}

	return users, total, nil
}

// userWhere renders the filter as a SQL predicate with positional arguments.
func userWhere(filter UserFilter) (string, []any) {
	clauses := []string{"TRUE"}
	var args []any

	add := func(format string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(format, len(args)))
	}

	if filter.ID != nil {
		add(schema.UserAccount.ID+" = $%d", *filter.ID)
	}
	if filter.TelegramID != nil {
		add(schema.UserAccount.TelegramID+" = $%d", *filter.TelegramID)
	}
	if filter.Role != nil {
		add(schema.UserAccount.Role+" = $%d", string(*filter.Role))
	}
	if filter.Email != nil {
		add(schema.UserAccount.Email+" = $%d", *filter.Email)
	}
	if filter.EmailContains != nil {
		add(schema.UserAccount.Email+" ILIKE $%d", likePattern(*filter.EmailContains))
	}
	if filter.Name != nil {
		add(schema.UserAccount.Name+" = $%d", *filter.Name)
	}
	if filter.NameContains != nil {
		add(schema.UserAccount.Name+" ILIKE $%d", likePattern(*filter.NameContains))
	}

	return strings.Join(clauses, " AND "), args
}

// likePattern escapes LIKE metacharacters and wraps the term in wildcards.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
