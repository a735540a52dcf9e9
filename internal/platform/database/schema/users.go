// Copyright (c) 2026 Swift Travel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the User Directory so that
// query builders never repeat string literals.
package schema

import (
	"strings"

	"github.com/taibuivan/swifttravel/internal/platform/constants"
)

// UsersTable represents the 'users' table.
type UsersTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	Preferences  string
	CreatedAt    string
	LastActiveAt string
}

// Users is the schema definition for the users table.
var Users = UsersTable{
	Table:        constants.SchemaUsers,
	ID:           "id",
	Email:        "email",
	Name:         "name",
	Preferences:  "preferences",
	CreatedAt:    "created_at",
	LastActiveAt: "last_active_at",
}

// Columns returns all column names in declaration order.
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Email, t.Name, t.Preferences, t.CreatedAt, t.LastActiveAt}
}

// SelectList returns the columns joined for a SELECT or RETURNING clause.
func (t UsersTable) SelectList() string {
	return strings.Join(t.Columns(), ", ")
}
