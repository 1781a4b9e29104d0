// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package expense

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/daybook/internal/platform/middleware"
	requestutil "github.com/taibuivan/daybook/internal/platform/request"
	"github.com/taibuivan/daybook/internal/platform/respond"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/slug"
)

// Handler implements the HTTP layer for expenses.
type Handler struct {
	expenseService *Service
	resolver       middleware.IdentityResolver
}

// NewHandler constructs a new expense [Handler].
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{expenseService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with the expense endpoints.
// GET accepts an id or a name as {ref}; PATCH and DELETE accept only an id.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeExpensesRead)).Get("/", handler.list)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeExpensesCreate)).Post("/", handler.create)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeExpensesRead)).Get("/{ref}", handler.get)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeExpensesUpdate)).Patch("/{ref}", handler.update)
	router.With(middleware.RequireScopes(handler.resolver, sec.ScopeExpensesDelete)).Delete("/{ref}", handler.delete)

	return router
}

type expenseRequest struct {
	Name        *string  `json:"name"`
	Amount      *float64 `json:"amount"`
	Currency    *string  `json:"currency"`
	CategoryID  *string  `json:"category_id"`
	Tag         *string  `json:"tag"`
	Shared      *bool    `json:"shared"`
	ExpenseDate *Date    `json:"expense_date"`
}

// parseDate reads an optional YYYY-MM-DD query value.
func parseDate(request *http.Request, key string) (*Date, error) {
	value, err := requestutil.QueryDate(request, key)
	if err != nil || value == nil {
		return nil, err
	}
	date := NewDate(*value)
	return &date, nil
}

/*
GET /api/v1/expenses

Query:
  - category: category slug
  - start_date, end_date: inclusive YYYY-MM-DD bounds
  - limit, offset|skip

Response:
  - 200: Paginated Expenses
  - 400: Malformed filter or end_date before start_date
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{UserID: userID, CategorySlug: requestutil.QueryString(request, FieldCategory)}
	if filter.CategorySlug != nil && !slug.Valid(*filter.CategorySlug) {
		respond.Error(writer, request, validate.FieldError(FieldCategory, "Must be a category slug"))
		return
	}
	if filter.StartDate, err = parseDate(request, FieldStartDate); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if filter.EndDate, err = parseDate(request, FieldEndDate); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	expenses, total, err := handler.expenseService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, expenses, pagination.NewMeta(params, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	expense, err := handler.expenseService.Get(request.Context(), userID, requestutil.Param(request, "ref"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expense)
}

/*
POST /api/v1/expenses

Request: {name, amount, currency?, category_id, tag?, shared?, expense_date?}

Response:
  - 201: Expense
  - 400: Validation failure, including an unknown category_id
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input expenseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	expense, err := handler.expenseService.Create(request.Context(), userID, Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, expense)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input expenseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	expense, err := handler.expenseService.Update(request.Context(), userID, requestutil.Param(request, "ref"), Input(input))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, expense)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.expenseService.Delete(request.Context(), userID, requestutil.Param(request, "ref")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
