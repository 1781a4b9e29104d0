// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/users/auth"
	"github.com/taibuivan/daybook/pkg/pagination"
)

// Handler implements the HTTP layer for the user directory.
type Handler struct {
	accountService *Service
	resolver       middleware.IdentityResolver
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{accountService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the directory endpoints.
// Each route declares the scopes it requires.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeUsersRead)).Get("/", handler.list)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeUsersWrite)).Post("/", handler.create)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeMeRead)).Get("/me", handler.me)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeUsersRead)).Get("/{id}", handler.get)

	return router
}

/*
GET /api/v1/users

Description: Lists accounts, newest first.

Request:
  - Query: id, telegram_id, role, email, email__contains, name,
    name__contains, limit, offset

Response:
  - 200: []User with pagination meta
  - 400: Malformed filter value
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	telegramID, err := requestutil.QueryInt64(request, FilterTelegramID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := auth.UserFilter{
		ID:            requestutil.QueryString(request, FilterID),
		TelegramID:    telegramID,
		Name:          requestutil.QueryString(request, FilterName),
		NameContains:  requestutil.QueryString(request, FilterNameContains),
		EmailContains: requestutil.QueryString(request, FilterEmailContains),
	}
	if email := requestutil.QueryString(request, FilterEmail); email != nil {
		normalized := auth.NormalizeEmail(*email)
		filter.Email = &normalized
	}
	if role := requestutil.QueryString(request, FilterRole); role != nil {
		value := sec.Role(*role)
		filter.Role = &value
	}

	params := pagination.FromRequest(request)
	users, total, err := handler.accountService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

type createRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Role       sec.Role `json:"role"`
	TelegramID *int64   `json:"telegram_id"`
}

/*
POST /api/v1/users

Description: Administrative account creation with an explicit role.

Response:
  - 201: User
  - 400: Validation failure
  - 409: Email or telegram id already registered
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), actor, CreateInput{
		Name:       strings.TrimSpace(input.Name),
		Email:      input.Email,
		Password:   input.Password,
		Role:       input.Role,
		TelegramID: input.TelegramID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

/*
GET /api/v1/users/me

Response:
  - 200: Profile
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.accountService.Me(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

// GET /api/v1/users/{id}
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
