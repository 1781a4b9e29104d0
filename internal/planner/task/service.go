// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// Service implements the task use cases for a single owner at a time.
type Service struct {
	taskRepository Repository
	logger         *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{taskRepository: repository, logger: logger}
}

// CreateInput holds the fields of a new task.
type CreateInput struct {
	Title       string
	Description string
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

func validateTitle(validator *validate.Validator, title string) {
	validator.Required(FieldTitle, title).MaxLen(FieldTitle, title, MaxTitleLength)
}

/*
Create stores a new, uncompleted task for userID.

Returns:
  - *Task: The persisted task
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, userID string, input CreateInput) (*Task, error) {
	title := strings.TrimSpace(input.Title)

	validator := &validate.Validator{}
	validateTitle(validator, title)
	validator.MaxLen(FieldDescription, input.Description, MaxDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task := &Task{
		ID:          uuidv7.New(),
		UserID:      userID,
		Title:       title,
		Description: input.Description,
	}
	if err := service.taskRepository.Create(context, task); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "task_created", slog.String("task_id", task.ID))
	return task, nil
}

// Get returns the owner's task. A malformed id is reported as not found.
func (service *Service) Get(context context.Context, userID, id string) (*Task, error) {
	if !uuidv7.IsValid(id) {
		return nil, ErrTaskNotFound
	}
	return service.taskRepository.FindByID(context, userID, id)
}

// List returns one page of the owner's tasks and the total count.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Task, int, error) {
	tasks, total, err := service.taskRepository.List(context, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("task_service_list_failed: %w", err)
	}
	return tasks, total, nil
}

/*
Update applies a partial change to the owner's task.

Returns:
  - *Task: The task after the change
  - error: ErrTaskNotFound, validation or storage failures
*/
func (service *Service) Update(context context.Context, userID, id string, input UpdateInput) (*Task, error) {
	validator := &validate.Validator{}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
		validateTitle(validator, trimmed)
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task, err := service.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	if err := service.taskRepository.Update(context, task); err != nil {
		return nil, err
	}
	return task, nil
}

// SetCompleted marks the task done or not done. Repeating a call is harmless.
func (service *Service) SetCompleted(context context.Context, userID, id string, completed bool) (*Task, error) {
	return service.Update(context, userID, id, UpdateInput{IsCompleted: &completed})
}

// Delete removes the owner's task.
func (service *Service) Delete(context context.Context, userID, id string) error {
	if !uuidv7.IsValid(id) {
		return ErrTaskNotFound
	}
	if err := service.taskRepository.Delete(context, userID, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "task_deleted", slog.String("task_id", id))
	return nil
}

// Stats summarises the owner's tasks.
func (service *Service) Stats(context context.Context, userID string) (Stats, error) {
	stats, err := service.taskRepository.Stats(context, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("task_service_stats_failed: %w", err)
	}
	return stats, nil
}
