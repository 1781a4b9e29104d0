// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlannerTaskTable represents the 'planner.task' table
type PlannerTaskTable struct {
	Table       string
	ID          string
	UserID      string
	Title       string
	Description string
	IsCompleted string
	CreatedAt   string
	UpdatedAt   string
}

// PlannerTask is the schema definition for planner.task
var PlannerTask = PlannerTaskTable{
	Table:       "planner.task",
	ID:          "id",
	UserID:      "userid",
	Title:       "title",
	Description: "description",
	IsCompleted: "iscompleted",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t PlannerTaskTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Description, t.IsCompleted, t.CreatedAt, t.UpdatedAt}
}
