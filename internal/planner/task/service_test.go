// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/planner/task"
	"github.com/taibuivan/daybook/pkg/pagination"
)

const (
	ownerID = "0190a0c0-1111-7000-8000-000000000001"
	taskID  = "0190a0c0-2222-7000-8000-000000000002"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockRepository) FindByID(ctx context.Context, userID, id string) (*task.Task, error) {
	args := m.Called(ctx, userID, id)
	found, _ := args.Get(0).(*task.Task)
	return found, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter task.Filter, limit, offset int) ([]*task.Task, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	tasks, _ := args.Get(0).([]*task.Task)
	return tasks, args.Int(1), args.Error(2)
}

func (m *mockRepository) Update(ctx context.Context, t *task.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockRepository) Stats(ctx context.Context, userID string) (task.Stats, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(task.Stats), args.Error(1)
}

func TestNewStats(t *testing.T) {
	tests := []struct {
		total, completed int
		pending          int
		rate             float64
	}{
		{0, 0, 0, 0},
		{4, 1, 3, 25},
		{3, 1, 2, 33.33},
		{3, 2, 1, 66.67},
		{5, 5, 0, 100},
	}

	for _, tt := range tests {
		stats := task.NewStats(tt.total, tt.completed)
		assert.Equal(t, tt.pending, stats.Pending)
		assert.InDelta(t, tt.rate, stats.CompletionRate, 0.0001)
	}
}

func TestService_Create(t *testing.T) {
	repository := &mockRepository{}
	service := task.NewService(repository, nil)

	repository.On("Create", mock.Anything, mock.MatchedBy(func(created *task.Task) bool {
		return created.UserID == ownerID && created.Title == "Buy milk" && !created.IsCompleted && created.ID != ""
	})).Return(nil)

	created, err := service.Create(context.Background(), ownerID, task.CreateInput{Title: "  Buy milk ", Description: "2 litres"})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	repository.AssertExpectations(t)
}

func TestService_Create_Validation(t *testing.T) {
	repository := &mockRepository{}
	service := task.NewService(repository, nil)

	inputs := []task.CreateInput{
		{Title: "   "},
		{Title: strings.Repeat("x", task.MaxTitleLength+1)},
		{Title: "ok", Description: strings.Repeat("d", task.MaxDescriptionLength+1)},
	}

	for _, input := range inputs {
		_, err := service.Create(context.Background(), ownerID, input)
		appErr := apperr.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	}
	repository.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Update_Partial(t *testing.T) {
	repository := &mockRepository{}
	service := task.NewService(repository, nil)

	existing := &task.Task{ID: taskID, UserID: ownerID, Title: "Old", Description: "keep me"}
	repository.On("FindByID", mock.Anything, ownerID, taskID).Return(existing, nil)
	repository.On("Update", mock.Anything, existing).Return(nil)

	title := "New"
	updated, err := service.Update(context.Background(), ownerID, taskID, task.UpdateInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.False(t, updated.IsCompleted)

	done, err := service.SetCompleted(context.Background(), ownerID, taskID, true)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)
}

func TestService_ForeignOrMissing(t *testing.T) {
	repository := &mockRepository{}
	service := task.NewService(repository, nil)

	repository.On("FindByID", mock.Anything, ownerID, taskID).Return(nil, task.ErrTaskNotFound)
	repository.On("Delete", mock.Anything, ownerID, taskID).Return(task.ErrTaskNotFound)

	_, err := service.Get(context.Background(), ownerID, taskID)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	_, err = service.SetCompleted(context.Background(), ownerID, taskID, true)
	assert.ErrorIs(t, err, task.ErrTaskNotFound)

	assert.ErrorIs(t, service.Delete(context.Background(), ownerID, taskID), task.ErrTaskNotFound)

	_, err = service.Get(context.Background(), ownerID, "17")
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
	repository.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestService_List(t *testing.T) {
	repository := &mockRepository{}
	service := task.NewService(repository, nil)

	completed := false
	filter := task.Filter{UserID: ownerID, Completed: &completed}
	repository.On("List", mock.Anything, filter, 10, 20).Return([]*task.Task{{ID: taskID}}, 21, nil)

	tasks, total, err := service.List(context.Background(), filter, pagination.Params{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 21, total)
}
