// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlannerNoteTable represents the 'planner.note' table
type PlannerNoteTable struct {
	Table     string
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// PlannerNote is the schema definition for planner.note
var PlannerNote = PlannerNoteTable{
	Table:     "planner.note",
	ID:        "id",
	UserID:    "userid",
	Title:     "title",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t PlannerNoteTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Content, t.CreatedAt, t.UpdatedAt}
}
