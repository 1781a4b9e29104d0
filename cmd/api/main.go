// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Daybook HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Build the security primitives (policy, token codec, hasher).
//  7. Wire repositories, services and HTTP handlers.
//  8. Serve until SIGINT/SIGTERM, then drain in-flight requests.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/daybook/internal/api"
	"github.com/taibuivan/daybook/internal/budget/category"
	"github.com/taibuivan/daybook/internal/budget/expense"
	"github.com/taibuivan/daybook/internal/planner/event"
	"github.com/taibuivan/daybook/internal/planner/note"
	"github.com/taibuivan/daybook/internal/planner/task"
	"github.com/taibuivan/daybook/internal/platform/config"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/metrics"
	"github.com/taibuivan/daybook/internal/platform/migration"
	pgstore "github.com/taibuivan/daybook/internal/platform/postgres"
	redisstore "github.com/taibuivan/daybook/internal/platform/redis"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/account"
	"github.com/taibuivan/daybook/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled),
	)

	// Root context lives until SIGINT/SIGTERM.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	policy, err := sec.NewPolicy(sec.DefaultGrants())
	must(log, err, "build role policy")

	codec, err := sec.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTAlgorithm, cfg.JWTIssuer)
	must(log, err, "initialize token codec")

	hasher := sec.NewPasswordHasher(cfg.BcryptCost)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.New(registry, cfg.MetricsEnabled)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	throttle := auth.NewLoginThrottle(rdb, cfg.LoginMaxFailures, cfg.LoginLockoutWindow())

	authService, err := auth.NewService(auth.ServiceConfig{
		Users:    userRepository,
		Throttle: throttle,
		Hasher:   hasher,
		Tokens:   codec,
		Policy:   policy,
		TokenTTL: cfg.AccessTokenTTL(),
		Metrics:  recorder,
		Logger:   log,
	})
	must(log, err, "initialize auth service")

	resolver := auth.NewResolver(auth.ResolverConfig{
		Verifier: codec,
		Users:    userRepository,
		Policy:   policy,
		Metrics:  recorder,
		Logger:   log,
		Bypass:   cfg.AuthBypass,
	})
	if resolver.BypassEnabled() {
		log.Warn("AUTH_BYPASS_ENABLED: every request is served as a synthetic administrator",
			slog.String("environment", cfg.Environment),
			slog.String("user_id", auth.BypassUserID),
		)
		if err := auth.EnsureBypassAccount(startupCtx, userRepository); err != nil {
			log.Warn("auth_bypass_account_unavailable", slog.Any("error", err))
		}
	}

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
	}, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Users:      account.NewHandler(account.NewService(userRepository, authService, log), resolver),
		Tasks:      task.NewHandler(task.NewService(task.NewRepository(pool), log), resolver),
		Notes:      note.NewHandler(note.NewService(note.NewRepository(pool), log), resolver),
		Events:     event.NewHandler(event.NewService(event.NewRepository(pool), log), resolver),
		Categories: category.NewHandler(category.NewService(category.NewRepository(pool), log), resolver),
		Expenses:   expense.NewHandler(expense.NewService(expense.NewRepository(pool), log), resolver),
	}

	server := api.NewServer(rootCtx, cfg, log, recorder, handlers)

	// ── 8. Serve & Graceful Shutdown ──────────────────────────────────────
	group, groupCtx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
		return server.Shutdown(constants.ShutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
