// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names every table and column used by the repositories, so
// SQL is assembled from identifiers that are checked by the compiler.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Name       string
	Email      string
	Password   string
	Role       string
	TelegramID string
	CreatedAt  string
	UpdatedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Name:       "name",
	Email:      "email",
	Password:   "passwordhash",
	Role:       "role",
	TelegramID: "telegramid",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Name, t.Email, t.Password, t.Role, t.TelegramID, t.CreatedAt, t.UpdatedAt}
}
