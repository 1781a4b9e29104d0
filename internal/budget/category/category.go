// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category maintains the global catalogue of expense categories.

Categories are shared by every account. Each one is addressable by id and by
a slug derived from its name; names are unique, and a category referenced by
any expense cannot be deleted.
*/
package category

import (
	"context"
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

const (
	FieldName        = "name"
	FieldDescription = "description"

	MaxNameLength        = 100
	MaxDescriptionLength = 2000
)

var (
	// ErrCategoryNotFound is returned when neither id nor slug match.
	ErrCategoryNotFound = apperr.NotFound("Category")

	errNameTaken = apperr.Conflict("A category with this name already exists")
	errInUse     = apperr.Conflict("Category is used by existing expenses")
)

// Category is one entry of the catalogue.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Category Data Access

// Repository defines persistence for categories.
type Repository interface {
	// List returns categories alphabetically with the total count.
	List(context context.Context, limit, offset int) ([]*Category, int, error)

	FindByID(context context.Context, id string) (*Category, error)
	FindBySlug(context context.Context, slug string) (*Category, error)

	/*
		Create inserts a category.

		Returns:
		  - error: dberr.ErrDuplicateKey when name or slug is taken
	*/
	Create(context context.Context, category *Category) error

	Update(context context.Context, category *Category) error

	/*
		Delete removes a category.

		Returns:
		  - error: dberr.ErrForeignKey while expenses reference it
	*/
	Delete(context context.Context, id string) error
}
