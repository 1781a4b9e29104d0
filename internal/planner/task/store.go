// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package task

import "context"

// # Task Data Access

// Repository defines persistence for tasks. Every method is scoped to one
// owner; a row owned by someone else yields [ErrTaskNotFound].
type Repository interface {
	Create(context context.Context, task *Task) error

	/*
		FindByID returns the owner's task.

		Returns:
		  - *Task: Hydrated entity
		  - error: ErrTaskNotFound or database failures
	*/
	FindByID(context context.Context, userID, id string) (*Task, error)

	// List returns one page of tasks, newest first, and the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Task, int, error)

	// Update writes title, description and completion back and refreshes UpdatedAt.
	Update(context context.Context, task *Task) error

	Delete(context context.Context, userID, id string) error

	// Stats counts the owner's tasks in one pass.
	Stats(context context.Context, userID string) (Stats, error)
}
