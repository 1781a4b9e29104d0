// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BudgetCategoryTable represents the 'budget.category' table
type BudgetCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

// BudgetCategory is the schema definition for budget.category
var BudgetCategory = BudgetCategoryTable{
	Table:       "budget.category",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t BudgetCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Description, t.CreatedAt, t.UpdatedAt}
}
