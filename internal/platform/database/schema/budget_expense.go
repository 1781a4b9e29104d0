// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// BudgetExpenseTable represents the 'budget.expense' table
type BudgetExpenseTable struct {
	Table       string
	ID          string
	UserID      string
	CategoryID  string
	Name        string
	Amount      string
	Currency    string
	Tag         string
	IsShared    string
	ExpenseDate string
	CreatedAt   string
	UpdatedAt   string
}

// BudgetExpense is the schema definition for budget.expense
var BudgetExpense = BudgetExpenseTable{
	Table:       "budget.expense",
	ID:          "id",
	UserID:      "userid",
	CategoryID:  "categoryid",
	Name:        "name",
	Amount:      "amount",
	Currency:    "currency",
	Tag:         "tag",
	IsShared:    "isshared",
	ExpenseDate: "expensedate",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t BudgetExpenseTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.CategoryID, t.Name, t.Amount, t.Currency,
		t.Tag, t.IsShared, t.ExpenseDate, t.CreatedAt, t.UpdatedAt,
	}
}
