// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package note

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// Service implements the note use cases.
type Service struct {
	noteRepository Repository
	logger         *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{noteRepository: repository, logger: logger}
}

// Input carries note fields. On update, nil fields are left untouched.
type Input struct {
	Title   *string
	Content *string
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		input.Title = &trimmed
		validator.Required(FieldTitle, trimmed).MaxLen(FieldTitle, trimmed, MaxTitleLength)
	} else if creating {
		validator.Required(FieldTitle, "")
	}
	if input.Content != nil {
		validator.MaxLen(FieldContent, *input.Content, MaxContentLength)
	}

	return validator.Err()
}

// Create stores a new note for userID.
func (service *Service) Create(context context.Context, userID string, input Input) (*Note, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	note := &Note{ID: uuidv7.New(), UserID: userID, Title: *input.Title}
	if input.Content != nil {
		note.Content = *input.Content
	}

	if err := service.noteRepository.Create(context, note); err != nil {
		return nil, fmt.Errorf("note_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "note_created", slog.String("note_id", note.ID))
	return note, nil
}

func (service *Service) Get(context context.Context, userID, id string) (*Note, error) {
	if !uuidv7.IsValid(id) {
		return nil, ErrNoteNotFound
	}
	return service.noteRepository.FindByID(context, userID, id)
}

func (service *Service) List(context context.Context, userID string, params pagination.Params) ([]*Note, int, error) {
	notes, total, err := service.noteRepository.List(context, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("note_service_list_failed: %w", err)
	}
	return notes, total, nil
}

// Update applies a partial change to the owner's note.
func (service *Service) Update(context context.Context, userID, id string, input Input) (*Note, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	note, err := service.Get(context, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}

	if err := service.noteRepository.Update(context, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (service *Service) Delete(context context.Context, userID, id string) error {
	if !uuidv7.IsValid(id) {
		return ErrNoteNotFound
	}
	return service.noteRepository.Delete(context, userID, id)
}
