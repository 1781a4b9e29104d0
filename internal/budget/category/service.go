// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/daybook/internal/platform/dberr"
	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/slug"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

// Service implements the category use cases.
type Service struct {
	categoryRepository Repository
	logger             *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{categoryRepository: repository, logger: logger}
}

// Input carries category fields. On update, nil fields are left untouched.
type Input struct {
	Name        *string
	Description *string
}

// slugFor derives the slug of a category. Names without any ASCII-mappable
// character fall back to an id-based slug so the category stays addressable.
func slugFor(name, id string) string {
	if derived := slug.From(name); derived != "" {
		return derived
	}
	return "category-" + strings.ReplaceAll(id, "-", "")[20:]
}

func (input *Input) validate(creating bool) error {
	validator := &validate.Validator{}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		validator.Required(FieldName, trimmed).MaxLen(FieldName, trimmed, MaxNameLength)
	} else if creating {
		validator.Required(FieldName, "")
	}
	if input.Description != nil {
		validator.MaxLen(FieldDescription, *input.Description, MaxDescriptionLength)
	}

	return validator.Err()
}

func (service *Service) List(context context.Context, params pagination.Params) ([]*Category, int, error) {
	categories, total, err := service.categoryRepository.List(context, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("category_service_list_failed: %w", err)
	}
	return categories, total, nil
}

/*
Get resolves a category reference.

Parameters:
  - ref: string (a UUID is looked up by id, anything else by slug)

Returns:
  - *Category: The matching category
  - error: ErrCategoryNotFound or storage failures
*/
func (service *Service) Get(context context.Context, ref string) (*Category, error) {
	if uuidv7.IsValid(ref) {
		return service.categoryRepository.FindByID(context, ref)
	}
	if !slug.Valid(ref) {
		return nil, ErrCategoryNotFound
	}
	return service.categoryRepository.FindBySlug(context, ref)
}

// Create adds a category. A duplicate name or slug is a Conflict.
func (service *Service) Create(context context.Context, input Input) (*Category, error) {
	if err := input.validate(true); err != nil {
		return nil, err
	}

	category := &Category{ID: uuidv7.New(), Name: *input.Name}
	category.Slug = slugFor(category.Name, category.ID)
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := service.categoryRepository.Create(context, category); err != nil {
		return nil, service.translate(err, "category_service_create_failed")
	}

	service.logger.InfoContext(context, "category_created",
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)
	return category, nil
}

// Update renames or re-describes a category. Renaming also changes the slug.
func (service *Service) Update(context context.Context, ref string, input Input) (*Category, error) {
	if err := input.validate(false); err != nil {
		return nil, err
	}

	category, err := service.Get(context, ref)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		category.Name = *input.Name
		category.Slug = slugFor(category.Name, category.ID)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}

	if err := service.categoryRepository.Update(context, category); err != nil {
		return nil, service.translate(err, "category_service_update_failed")
	}
	return category, nil
}

// Delete removes a category that no expense references.
func (service *Service) Delete(context context.Context, ref string) error {
	category, err := service.Get(context, ref)
	if err != nil {
		return err
	}

	if err := service.categoryRepository.Delete(context, category.ID); err != nil {
		return service.translate(err, "category_service_delete_failed")
	}

	service.logger.InfoContext(context, "category_deleted", slog.String("category_id", category.ID))
	return nil
}

// translate maps constraint violations onto client errors.
func (service *Service) translate(err error, action string) error {
	switch {
	case errors.Is(err, dberr.ErrDuplicateKey):
		return errNameTaken
	case errors.Is(err, dberr.ErrForeignKey):
		return errInUse
	case errors.Is(err, ErrCategoryNotFound):
		return err
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
