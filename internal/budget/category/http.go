// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/pkg/pagination"
)

// Handler implements the HTTP layer for expense categories.
type Handler struct {
	categoryService *Service
	resolver        middleware.IdentityResolver
}

// NewHandler constructs a new category [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{categoryService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the category endpoints.
// {ref} is either a category id or its slug.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	read := middleware.RequireScopes(handler.resolver, sec.ScopeCategoriesRead)
	write := middleware.RequireScopes(handler.resolver, sec.ScopeCategoriesWrite)

	router.With(read).Get("/", handler.list)
	router.With(write).Post("/", handler.create)
	router.With(read).Get("/{ref}", handler.get)
	router.With(write).Patch("/{ref}", handler.update)
	router.With(write).Delete("/{ref}", handler.delete)

	return router
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	categories, total, err := handler.categoryService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, categories, pagination.NewMeta(params, total))
}

/*
POST /api/v1/expense-categories

Response:
  - 201: Category
  - 400: Validation failure
  - 409: Name already used
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.categoryService.Create(request.Context(), Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, category)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.categoryService.Get(request.Context(), requestutil.Param(request, "ref"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input categoryRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.categoryService.Update(request.Context(), requestutil.Param(request, "ref"), Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, category)
}

/*
DELETE /api/v1/expense-categories/{ref}

Response:
  - 204: Deleted
  - 404: Category not found
  - 409: Category still referenced by expenses
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.categoryService.Delete(request.Context(), requestutil.Param(request, "ref")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
