// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgtest starts a throwaway PostgreSQL for repository integration tests.

Tests calling [NewPool] are skipped under -short and when no container
runtime is reachable. Every call gets a fresh, fully migrated database.
*/
package pgtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/taibuivan/daybook/internal/platform/migration"
	"github.com/taibuivan/daybook/internal/platform/postgres"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// Image is the server version the migrations are tested against.
const Image = "postgres:16-alpine"

// NewPool returns a pool connected to a migrated database. The container is
// terminated when the test finishes.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, Image,
		tcpostgres.WithDatabase("daybook_test"),
		tcpostgres.WithUsername("daybook"),
		tcpostgres.WithPassword("daybook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.RunUp(dsn, MigrationsPath(), logger))

	pool, err := postgres.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// MigrationsPath resolves data/migrations relative to this source file.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "data", "migrations")
}

// SeedUser inserts a bare account and returns its id, for tables that
// reference users.account.
func SeedUser(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()

	id := uuidv7.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users.account (id, name, email, passwordhash) VALUES ($1, $2, $3, $4)`,
		id, "Seed", id+"@seed.test", "-",
	)
	require.NoError(t, err)
	return id
}
