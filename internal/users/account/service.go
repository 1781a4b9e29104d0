// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/daybook/internal/platform/apperr"
	"github.com/taibuivan/daybook/internal/platform/sec"
	"github.com/taibuivan/daybook/internal/platform/validate"
	"github.com/taibuivan/daybook/internal/users/auth"
	"github.com/taibuivan/daybook/pkg/pagination"
	"github.com/taibuivan/daybook/pkg/uuidv7"
)

var errUserNotFound = apperr.NotFound("User")

// # Service Layer

// Service implements the user directory use cases.
type Service struct {
	directory Directory
	registrar Registrar
	logger    *slog.Logger
}

// NewService constructs a new [Service].
func NewService(directory Directory, registrar Registrar, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{directory: directory, registrar: registrar, logger: logger}
}

/*
List returns one page of accounts matching filter.

Parameters:
  - context: context.Context
  - filter: auth.UserFilter
  - params: pagination.Params

Returns:
  - []*auth.User: The page (never nil)
  - int: Total matches across all pages
  - error: Validation or storage failures
*/
func (service *Service) List(context context.Context, filter auth.UserFilter, params pagination.Params) ([]*auth.User, int, error) {
	validator := &validate.Validator{}
	if filter.ID != nil {
		validator.UUID(FilterID, *filter.ID)
	}
	if filter.Role != nil {
		validator.Custom(FilterRole, !filter.Role.IsValid(), "Unknown role")
	}
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	users, total, err := service.directory.List(context, filter, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// Get returns a single account. A malformed id is reported as not found.
func (service *Service) Get(context context.Context, id string) (*auth.User, error) {
	if !uuidv7.IsValid(id) {
		return nil, errUserNotFound
	}

	user, err := service.directory.FindByID(context, id)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

// CreateInput is the administrative account creation payload.
type CreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       sec.Role
	TelegramID *int64
}

/*
Create provisions an account with an explicit role on behalf of an
administrator.

Returns:
  - *auth.User: Created entity
  - error: Validation, Conflict or storage failures
*/
func (service *Service) Create(context context.Context, actor *sec.Principal, input CreateInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(auth.FieldRole, input.Role.String())
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.registrar.Register(context, auth.RegisterInput{
		Name:       input.Name,
		Email:      input.Email,
		Password:   input.Password,
		TelegramID: input.TelegramID,
		Role:       input.Role,
	})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "account_created_by_admin",
		slog.String("actor_id", actor.UserID),
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)
	return user, nil
}

/*
Me returns the caller's profile.

Description: The synthetic development principal has no stored account, so
its profile is built from the principal alone.
*/
func (service *Service) Me(context context.Context, principal *sec.Principal) (*Profile, error) {
	if principal.Synthetic {
		profile := newProfile(&auth.User{
			ID:    principal.UserID,
			Name:  principal.Name,
			Email: principal.Email,
			Role:  principal.Role,
		}, principal)
		profile.Synthetic = true
		return profile, nil
	}

	user, err := service.directory.FindByID(context, principal.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("account_service_me_failed: %w", err)
	}
	return newProfile(user, principal), nil
}
