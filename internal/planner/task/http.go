// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/pkg/pagination"
)

// Handler implements the HTTP layer for tasks.
type Handler struct {
	taskService *Service
	resolver    middleware.IdentityResolver
}

// NewHandler constructs a new task [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{taskService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the task endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	read := middleware.RequireScopes(handler.resolver, sec.ScopeTasksRead)
	update := middleware.RequireScopes(handler.resolver, sec.ScopeTasksUpdate)

	router.With(read).Get("/", handler.list)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeTasksWrite)).Post("/", handler.create)
	router.With(read).Get("/stats", handler.stats)

	router.Route("/{id}", func(r chi.Router) {
		r.With(read).Get("/", handler.get)
		r.With(update).Patch("/", handler.update)
		r.With(middleware.RequireScopes(handler.resolver, sec.ScopeTasksDelete)).Delete("/", handler.delete)
		r.With(update).Post("/complete", handler.complete)
		r.With(update).Post("/uncomplete", handler.uncomplete)
	})

	return router
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

/*
GET /api/v1/tasks

Request:
  - Query: completed (bool), skip/offset, limit

Response:
  - 200: []Task with pagination meta
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	completed, err := requestutil.QueryBool(request, FieldCompleted)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	tasks, total, err := handler.taskService.List(request.Context(), Filter{UserID: userID, Completed: completed}, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks, pagination.NewMeta(params, total))
}

/*
POST /api/v1/tasks

Response:
  - 201: Task
  - 400: Validation failure
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Create(request.Context(), userID, CreateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, task)
}

// GET /api/v1/tasks/stats
func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stats, err := handler.taskService.Stats(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stats)
}

// GET /api/v1/tasks/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Get(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

/*
PATCH /api/v1/tasks/{id}

Response:
  - 200: Task
  - 400: Validation failure
  - 404: Task not found
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.Update(request.Context(), userID, requestutil.Param(request, "id"), UpdateInput(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}

// DELETE /api/v1/tasks/{id}
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.taskService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	handler.setCompleted(writer, request, true)
}

func (handler *Handler) uncomplete(writer http.ResponseWriter, request *http.Request) {
	handler.setCompleted(writer, request, false)
}

// setCompleted serves POST /api/v1/tasks/{id}/complete and /uncomplete.
func (handler *Handler) setCompleted(writer http.ResponseWriter, request *http.Request, completed bool) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.taskService.SetCompleted(request.Context(), userID, requestutil.Param(request, "id"), completed)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, task)
}
