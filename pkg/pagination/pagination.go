// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// List endpoints use offset pagination: "limit" bounds the window and
// "offset" (or its alias "skip") positions it. The resulting metadata is
// delivered in the response envelope next to the data.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items returned if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per request to prevent system abuse.
	MaxLimit = 100
)

// Params holds the parsed window from a request's query string.
type Params struct {
	Limit  int
	Offset int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(params Params, total int) Meta {
	return Meta{
		Limit:  params.Limit,
		Offset: params.Offset,
		Total:  total,
	}
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
// "skip" is accepted as an alias of "offset" when the latter is absent.
//
// # Clamping
//
// Invalid or negative values fall back to the defaults; limits above
// [MaxLimit] are clamped to it.
func FromRequest(r *http.Request) Params {
	limit := parseIntParam(r, "limit", DefaultLimit)

	offsetKey := "offset"
	if r.URL.Query().Get(offsetKey) == "" {
		offsetKey = "skip"
	}
	offset := parseIntParam(r, offsetKey, 0)

	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
