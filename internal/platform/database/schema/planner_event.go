// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PlannerEventTable represents the 'planner.event' table
type PlannerEventTable struct {
	Table       string
	ID          string
	UserID      string
	Title       string
	Description string
	StartTime   string
	EndTime     string
	CreatedAt   string
	UpdatedAt   string
}

// PlannerEvent is the schema definition for planner.event
var PlannerEvent = PlannerEventTable{
	Table:       "planner.event",
	ID:          "id",
	UserID:      "userid",
	Title:       "title",
	Description: "description",
	StartTime:   "starttime",
	EndTime:     "endtime",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t PlannerEventTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Title, t.Description, t.StartTime, t.EndTime, t.CreatedAt, t.UpdatedAt}
}
