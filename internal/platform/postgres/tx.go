// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the statement surface shared by [pgxpool.Pool] and [pgx.Tx].
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner opens transactions. Satisfied by [pgxpool.Pool].
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

/*
WithTx runs fn inside a single transaction.

Description: The transaction commits when fn returns nil and rolls back on
any error or panic, so a request that performs several writes either lands
all of them or none.

Parameters:
  - ctx: context.Context
  - db: TxBeginner (usually the pool)
  - fn: func(Querier) error

Returns:
  - error: fn's error unchanged, or a begin/commit failure
*/
func WithTx(ctx context.Context, db TxBeginner, fn func(Querier) error) error {
	transaction, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_tx_begin_failed: %w", err)
	}

	// Rollback after a successful commit is a no-op.
	defer func() { _ = transaction.Rollback(ctx) }()

	if err := fn(transaction); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_tx_commit_failed: %w", err)
	}

	return nil
}
