// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/budget/category"
	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/sec"
)

const groceriesID = "0190a0c0-0000-7000-8000-000000000001"

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) List(ctx context.Context, limit, offset int) ([]*category.Category, int, error) {
	args := m.Called(ctx, limit, offset)
	categories, _ := args.Get(0).([]*category.Category)
	return categories, args.Int(1), args.Error(2)
}

func (m *mockRepository) FindByID(ctx context.Context, id string) (*category.Category, error) {
	args := m.Called(ctx, id)
	found, _ := args.Get(0).(*category.Category)
	return found, args.Error(1)
}

func (m *mockRepository) FindBySlug(ctx context.Context, slug string) (*category.Category, error) {
	args := m.Called(ctx, slug)
	found, _ := args.Get(0).(*category.Category)
	return found, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepository) Update(ctx context.Context, c *category.Category) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func ptr(s string) *string { return &s }

func groceries() *category.Category {
	return &category.Category{ID: groceriesID, Name: "Groceries", Slug: "groceries"}
}

func TestService_Create_Slug(t *testing.T) {
	tests := []struct {
		name string
		slug *regexp.Regexp
	}{
		{"Eating Out", regexp.MustCompile(`^eating-out$`)},
		{"  Café & Bar ", regexp.MustCompile(`^cafe-bar$`)},
		{"Продукты", regexp.MustCompile(`^category-[0-9a-f]{12}$`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := &mockRepository{}
			repository.On("Create", mock.Anything, mock.Anything).Return(nil)
			service := category.NewService(repository, nil)

			created, err := service.Create(context.Background(), category.Input{Name: ptr(tt.name)})
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.name), created.Name)
			assert.Regexp(t, tt.slug, created.Slug)
		})
	}
}

func TestService_Create_Duplicate(t *testing.T) {
	repository := &mockRepository{}
	repository.On("Create", mock.Anything, mock.Anything).
		Return(&dberr.ConstraintError{Kind: dberr.ErrDuplicateKey, Constraint: "category_name_key", Action: "create_category"})
	service := category.NewService(repository, nil)

	_, err := service.Create(context.Background(), category.Input{Name: ptr("Groceries")})
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestService_Get_ByRef(t *testing.T) {
	repository := &mockRepository{}
	repository.On("FindByID", mock.Anything, groceriesID).Return(groceries(), nil)
	repository.On("FindBySlug", mock.Anything, "groceries").Return(groceries(), nil)
	service := category.NewService(repository, nil)

	byID, err := service.Get(context.Background(), groceriesID)
	require.NoError(t, err)
	byslug, err := service.Get(context.Background(), "groceries")
	require.NoError(t, err)
	assert.Equal(t, byID, byslug)

	_, err = service.Get(context.Background(), "Not A Slug")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	repository.AssertNumberOfCalls(t, "FindBySlug", 1)
}

func TestService_Update_Renames(t *testing.T) {
	repository := &mockRepository{}
	repository.On("FindBySlug", mock.Anything, "groceries").Return(groceries(), nil)
	repository.On("Update", mock.Anything, mock.Anything).Return(nil)
	service := category.NewService(repository, nil)

	updated, err := service.Update(context.Background(), "groceries", category.Input{Name: ptr("Food Shopping")})
	require.NoError(t, err)
	assert.Equal(t, "food-shopping", updated.Slug)
	assert.Equal(t, groceriesID, updated.ID)
}

func TestService_Delete_InUse(t *testing.T) {
	repository := &mockRepository{}
	repository.On("FindBySlug", mock.Anything, "groceries").Return(groceries(), nil)
	repository.On("Delete", mock.Anything, groceriesID).
		Return(&dberr.ConstraintError{Kind: dberr.ErrForeignKey, Constraint: "expense_categoryid_fkey", Action: "delete_category"})
	service := category.NewService(repository, nil)

	err := service.Delete(context.Background(), "groceries")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

type staticResolver struct {
	principal *sec.Principal
}

func (resolver staticResolver) Resolve(_ context.Context, _ string, required []sec.Scope) (*sec.Principal, error) {
	if len(resolver.principal.Scopes.Missing(required...)) > 0 {
		return nil, apperr.Forbidden("Not enough permissions")
	}
	return resolver.principal, nil
}

func TestHandler_ReadOnlyPrincipal(t *testing.T) {
	repository := &mockRepository{}
	repository.On("FindBySlug", mock.Anything, "groceries").Return(groceries(), nil)

	principal := &sec.Principal{UserID: "u", Scopes: sec.NewScopeSet(sec.ScopeCategoriesRead)}
	router := category.NewHandler(category.NewService(repository, nil), staticResolver{principal: principal}).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/groceries", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"slug":"groceries"`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"New"}`)))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/groceries", nil))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}
