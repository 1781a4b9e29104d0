// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package task manages the to-do items of the planner.

Every task belongs to exactly one account. Repositories always filter by the
owner, so a task of another account behaves exactly like a missing one.
*/
package task

import (
	"time"

	"github.com/taibuivan/daybook/internal/platform/apperr"
)

// Field names used in validation errors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
)

// Length limits.
const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
)

// ErrTaskNotFound is returned for missing and foreign tasks alike.
var ErrTaskNotFound = apperr.NotFound("Task")

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows a task listing. UserID is mandatory.
type Filter struct {
	UserID    string
	Completed *bool
}

// Stats summarises an account's tasks.
type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	Pending        int     `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// NewStats derives the pending count and completion rate (percent, two
// decimals). An account without tasks has a rate of 0.
func NewStats(total, completed int) Stats {
	stats := Stats{Total: total, Completed: completed, Pending: total - completed}
	if total > 0 {
		rate := float64(completed) / float64(total) * 100
		stats.CompletionRate = float64(int(rate*100+0.5)) / 100
	}
	return stats
}
