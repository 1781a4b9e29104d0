// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// Service implements the event use cases.
type Service struct {
	eventRepository Repository
	logger          *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{eventRepository: repository, logger: logger}
}

// Input carries event fields. On update, nil fields are left untouched.
type Input struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time

	// ClearEndTime removes the end time. It wins over EndTime.
	ClearEndTime bool
}

// apply merges input into event and validates the result.
func (input Input) apply(event *Event) error {
	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = *input.Description
	}
	if input.StartTime != nil {
		event.StartTime = input.StartTime.UTC()
	}
	switch {
	case input.ClearEndTime:
		event.EndTime = nil
	case input.EndTime != nil:
		end := input.EndTime.UTC()
		event.EndTime = &end
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, event.Title).
		MaxLen(FieldTitle, event.Title, MaxTitleLength).
		MaxLen(FieldDescription, event.Description, MaxDescriptionLength).
		Custom(FieldStartTime, event.StartTime.IsZero(), "This field is required")
	if event.EndTime != nil && !event.StartTime.IsZero() {
		validator.After(FieldEndTime, *event.EndTime, event.StartTime)
	}
	return validator.Err()
}

/*
Create stores a new event for userID.

Returns:
  - *Event: The persisted event
  - error: Validation (missing start, end not after start) or storage failures
*/
func (service *Service) Create(context context.Context, userID string, input Input) (*Event, error) {
	event := &Event{ID: uuidv7.New(), UserID: userID}
	if err := input.apply(event); err != nil {
		return nil, err
	}

	if err := service.eventRepository.Create(context, event); err != nil {
		return nil, fmt.Errorf("event_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "event_created",
		slog.String("event_id", event.ID),
		slog.Time("start_time", event.StartTime),
	)
	return event, nil
}

func (service *Service) Get(context context.Context, userID, id string) (*Event, error) {
	if !uuidv7.IsValid(id) {
		return nil, ErrEventNotFound
	}
	return service.eventRepository.FindByID(context, userID, id)
}

func (service *Service) List(context context.Context, userID string, params pagination.Params) ([]*Event, int, error) {
	events, total, err := service.eventRepository.List(context, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("event_service_list_failed: %w", err)
	}
	return events, total, nil
}

// Update applies a partial change. The time ordering is checked against the
// merged event, so moving only the start can still be rejected.
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Event, error) {
	event, err := service.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	if err := input.apply(event); err != nil {
		return nil, err
	}

	if err := service.eventRepository.Update(context, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if !uuidv7.IsValid(id) {
		return ErrEventNotFound
	}
	return service.eventRepository.Delete(context, userID, id)
}
