// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/pkg/pagination"
)

// Handler implements the HTTP layer for notes.
type Handler struct {
	noteService *Service
	resolver    middleware.IdentityResolver
}

// NewHandler constructs a new note [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{noteService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the note endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	read := middleware.RequireScopes(handler.resolver, sec.ScopeNoteRead)

	router.With(read).Get("/", handler.list)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeNoteCreate)).Post("/", handler.create)
	router.With(read).Get("/{id}", handler.get)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeNoteUpdate)).Patch("/{id}", handler.update)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeNoteDelete)).Delete("/{id}", handler.delete)

	return router
}

type noteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// GET /api/v1/notes
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	notes, total, err := handler.noteService.List(request.Context(), userID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, notes, pagination.NewMeta(params, total))
}

// POST /api/v1/notes
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input noteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.noteService.Create(request.Context(), userID, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, note)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.noteService.Get(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input noteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	note, err := handler.noteService.Update(request.Context(), userID, requestutil.Param(request, "id"), Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, note)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.noteService.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
