// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/pkg/pagination"
)

// Handler implements the HTTP layer for events.
type Handler struct {
	eventService *Service
	resolver     middleware.IdentityResolver
}

// NewHandler constructs a new event [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{eventService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the event endpoints.
//
// # Endpoints
//   - GET    /      : events:read, ordered by start time
//   - POST   /      : events:create
//   - GET    /{id}  : events:read
//   - PATCH  /{id}  : events:update
//   - DELETE /{id}  : events:delete
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	read := middleware.RequireScopes(handler.resolver, sec.ScopeEventsRead)

	router.With(read).Get("/", handler.list)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeEventsCreate)).Post("/", handler.create)
	router.With(read).Get("/{id}", handler.get)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeEventsUpdate)).Patch("/{id}", handler.update)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeEventsDelete)).Delete("/{id}", handler.delete)

	return router
}

// eventRequest accepts RFC 3339 timestamps.
type eventRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	StartTime   *time.Time   `json:"start_time"`
	EndTime     nullableTime `json:"end_time"`
}

func (body eventRequest) input() Input {
	return Input{
		Title:        body.Title,
		Description:  body.Description,
		StartTime:    body.StartTime,
		EndTime:      body.EndTime.Value,
		ClearEndTime: body.EndTime.Set && body.EndTime.Value == nil,
	}
}

// nullableTime tells an absent key apart from an explicit null.
type nullableTime struct {
	Set   bool
	Value *time.Time
}

func (field *nullableTime) UnmarshalJSON(data []byte) error {
	field.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		field.Value = nil
		return nil
	}

	var value time.Time
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	field.Value = &value
	return nil
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	events, total, err := handler.eventService.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, events, pagination.NewMeta(params, total))
}

/*
POST /api/v1/events

Response:
  - 201: Event
  - 400: Missing start_time, or end_time not after start_time
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input eventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Create(request.Context(), userID, input.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, event)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Get(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

/*
PATCH /api/v1/events/{id}

Description: Absent keys are left unchanged. "end_time": null removes the
end time.
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input eventRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	event, err := handler.eventService.Update(request.Context(), userID, requestutil.Param(request, "id"), input.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, event)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.eventService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
