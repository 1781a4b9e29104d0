// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package note stores free-form notes owned by a single account.
package note

import (
	"context"
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

const (
	FieldTitle   = "title"
	FieldContent = "content"

	MaxTitleLength   = 255
	MaxContentLength = 10000
)

// ErrNoteNotFound is returned for missing and foreign notes alike.
var ErrNoteNotFound = apperr.NotFound("Note")

// Note is a titled block of text.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines persistence for notes, always scoped to one owner.
type Repository interface {
	Create(context context.Context, note *Note) error
	FindByID(context context.Context, userID, id string) (*Note, error)
	List(context context.Context, userID string, limit, offset int) ([]*Note, int, error)
	Update(context context.Context, note *Note) error
	Delete(context context.Context, userID, id string) error
}
