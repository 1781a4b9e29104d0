// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package expense_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/budget/expense"
	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

type staticResolver struct {
	principal *sec.Principal
}

func (resolver staticResolver) Resolve(_ context.Context, _ string, required []sec.Scope) (*sec.Principal, error) {
	if len(resolver.principal.Scopes.Missing(required...)) > 0 {
		return nil, apperr.Forbidden("Not enough permissions")
	}
	return resolver.principal, nil
}

func newRouter(repository *mockRepository, scopes ...sec.Scope) http.Handler {
	principal := &sec.Principal{UserID: ownerID, Role: sec.RoleUser, Scopes: sec.NewScopeSet(scopes...)}
	service := expense.NewService(repository, nil).WithClock(fixedClock)
	return expense.NewHandler(service, staticResolver{principal: principal}).Routes()
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(method, target, strings.NewReader(body)))
	return recorder
}

func TestHandler_Create(t *testing.T) {
	repository := &mockRepository{}
	repository.On("CategoryExists", mock.Anything, groceriesID).Return(true, nil)
	repository.On("Create", mock.Anything, mock.Anything).Return(nil)
	router := newRouter(repository, sec.ScopeExpensesCreate)

	recorder := serve(router, http.MethodPost, "/",
		`{"name":"Bread","amount":2.5,"category_id":"`+groceriesID+`","shared":true,"expense_date":"2026-05-01"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	body := recorder.Body.String()
	assert.Contains(t, body, `"expense_date":"2026-05-01"`)
	assert.Contains(t, body, `"shared":true`)
	assert.Contains(t, body, `"currency":"RUB"`)

	recorder = serve(router, http.MethodPost, "/", `{"name":"Bread","amount":2.5,"category_id":"`+groceriesID+`","expense_date":"May 1"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_List_Filters(t *testing.T) {
	repository := &mockRepository{}
	router := newRouter(repository, sec.ScopeExpensesRead)

	repository.On("List", mock.Anything, mock.MatchedBy(func(filter expense.Filter) bool {
		return filter.UserID == ownerID &&
			filter.CategorySlug != nil && *filter.CategorySlug == "groceries" &&
			filter.StartDate != nil && filter.StartDate.String() == "2026-05-01" &&
			filter.EndDate == nil
	}), 20, 0).Return([]*expense.Expense{{ID: expenseID, Name: "Bread"}}, 1, nil)

	recorder := serve(router, http.MethodGet, "/?category=groceries&start_date=2026-05-01", "")
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"total":1`)

	recorder = serve(router, http.MethodGet, "/?start_date=2026-05-10&end_date=2026-05-01", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "end_date")

	recorder = serve(router, http.MethodGet, "/?end_date=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = serve(router, http.MethodGet, "/?category=Not%20A%20Slug", "")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_Scopes(t *testing.T) {
	repository := &mockRepository{}
	router := newRouter(repository, sec.ScopeExpensesRead)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPost, "/", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPatch, "/"+expenseID, `{}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/"+expenseID, "").Code)
}

func TestHandler_Delete(t *testing.T) {
	repository := &mockRepository{}
	repository.On("Delete", mock.Anything, ownerID, expenseID).Return(nil).Once()
	repository.On("Delete", mock.Anything, ownerID, expenseID).Return(expense.ErrExpenseNotFound)
	router := newRouter(repository, sec.ScopeExpensesDelete)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/"+expenseID, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/"+expenseID, "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/Bread", "").Code)
}
