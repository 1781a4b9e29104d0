// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/daybook/internal/budget/category"
	"github.com/taibuivan/daybook/internal/budget/expense"
	"github.com/taibuivan/daybook/internal/planner/event"
	"github.com/taibuivan/daybook/internal/planner/note"
	"github.com/taibuivan/daybook/internal/planner/task"
	"github.com/taibuivan/daybook/internal/platform/config"
	"github.com/taibuivan/daybook/internal/platform/constants"
	"github.com/taibuivan/daybook/internal/platform/metrics"
	"github.com/taibuivan/daybook/internal/platform/middleware"
	"github.com/taibuivan/daybook/internal/users/account"
	"github.com/taibuivan/daybook/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler; it answers 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler; it answers 200 when every dependency is healthy.
	Readiness http.HandlerFunc

	// Auth handles the token and registration endpoints.
	Auth *auth.Handler

	Users      *account.Handler
	Tasks      *task.Handler
	Notes      *note.Handler
	Events     *event.Handler
	Categories *category.Handler
	Expenses   *expense.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, recorder *metrics.Metrics, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.ClientIP(cfg.TrustProxyHeaders))
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.Instrument(recorder))
	r.Use(middleware.PanicRecovery())
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", recorder.Handler())
	}

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/misc/health", h.Liveness)

		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/users", h.Users.Routes())
		api.Mount("/tasks", h.Tasks.Routes())
		api.Mount("/notes", h.Notes.Routes())
		api.Mount("/events", h.Events.Routes())
		api.Mount("/expense-categories", h.Categories.Routes())
		api.Mount("/expenses", h.Expenses.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router, mainly for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
