// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package event keeps calendar entries of the planner.

An event has a start and an optional end. When both are present the end is
strictly after the start; the service checks this before writing and the
table carries the same constraint.
*/
package event

import (
	"context"
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"

	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
)

// ErrEventNotFound is returned for missing and foreign events alike.
var ErrEventNotFound = apperr.NotFound("Event")

// Event is a scheduled entry.
type Event struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Repository defines persistence for events, always scoped to one owner.
type Repository interface {
	Create(context context.Context, event *Event) error
	FindByID(context context.Context, userID, id string) (*Event, error)

	// List returns the owner's events ordered by start time, earliest first.
	List(context context.Context, userID string, limit, offset int) ([]*Event, int, error)

	Update(context context.Context, event *Event) error
	Delete(context context.Context, userID, id string) error
}
