// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/daybook/internal/platform/respond"
)

// HealthCheck probes one dependency.
type HealthCheck func(context context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase HealthCheck

	// CheckCache pings the Redis client.
	CheckCache HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the liveness and readiness http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	if logger == nil {
		logger = slog.Default()
	}
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health and GET /api/v1/misc/health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, _ *http.Request) {
	respond.JSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}

// readiness handles GET /ready. Probes run concurrently; each one's failure
// is reported without cancelling the others.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	checks := []struct {
		name  string
		check HealthCheck
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	var (
		mutex   sync.Mutex
		results = make([]checkResult, 0, len(checks))
		group   errgroup.Group
		ready   = true
	)

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}
		group.Go(func() error {
			result := checkResult{Name: dependency.name, IsOK: true}
			if err := dependency.check(request.Context()); err != nil {
				result.IsOK = false
				result.Error = err.Error()
				handler.logger.ErrorContext(request.Context(), "readiness_check_failed",
					slog.String("dependency", dependency.name),
					slog.Any("error", err),
				)
			}

			mutex.Lock()
			defer mutex.Unlock()
			results = append(results, result)
			ready = ready && result.IsOK
			return nil
		})
	}
	_ = group.Wait()

	status, httpStatus := "ready", http.StatusOK
	if !ready {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		"status": status,
		"checks": results,
	})
}
