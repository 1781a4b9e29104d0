// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instruments for the HTTP layer and the
authentication core.

A disabled or nil [*Metrics] is a valid no-op, so components can record
unconditionally and tests can pass nil.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth failure reasons recorded on auth_failures_total.
const (
	ReasonMalformed          = "malformed"
	ReasonInvalidSignature   = "invalid_signature"
	ReasonExpired            = "expired"
	ReasonMissingToken       = "missing_token"
	ReasonUnknownPrincipal   = "unknown_principal"
	ReasonInsufficientScope  = "insufficient_scope"
	ReasonInvalidCredentials = "invalid_credentials"
	ReasonLockedOut          = "locked_out"
)

// Metrics holds all Prometheus instruments of the API process.
type Metrics struct {
	enabled  bool
	gatherer prometheus.Gatherer

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Authentication metrics
	AuthFailuresTotal *prometheus.CounterVec
	AuthLoginsTotal   prometheus.Counter
}

// New registers every instrument on registry. When enabled is false the
// returned value records nothing and serves an empty handler.
func New(registry *prometheus.Registry, enabled bool) *Metrics {
	m := &Metrics{enabled: enabled, gatherer: registry}
	if !enabled {
		return m
	}

	factory := promauto.With(registry)

	m.HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "daybook_http_requests_total",
		Help: "Total HTTP requests by method, route pattern and status code",
	}, []string{"method", "route", "status"})

	m.HTTPRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "daybook_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.AuthFailuresTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "daybook_auth_failures_total",
		Help: "Rejected authentication and authorization attempts by reason",
	}, []string{"reason"})

	m.AuthLoginsTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "daybook_auth_logins_total",
		Help: "Successful password logins",
	})

	return m
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// AuthFailure records a rejected authentication attempt.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil || !m.enabled {
		return
	}
	m.AuthFailuresTotal.WithLabelValues(reason).Inc()
}

// LoginSucceeded records a token issued by the login endpoint.
func (m *Metrics) LoginSucceeded() {
	if m == nil || !m.enabled {
		return
	}
	m.AuthLoginsTotal.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || !m.enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
