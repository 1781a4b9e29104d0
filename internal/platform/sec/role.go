// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # Account Roles

// Role is the authorization tier assigned to an account. The set is closed.
type Role string

const (
	// RoleAdministrator holds every scope in the universe.
	RoleAdministrator Role = "administrator"

	// RoleUser is the default role for self-registered accounts.
	RoleUser Role = "user"
)

// Roles lists every known role in a stable order.
func Roles() []Role {
	return []Role{RoleAdministrator, RoleUser}
}

// IsValid reports whether r belongs to the closed role set.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdministrator, RoleUser:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole converts a stored or submitted value into a [Role].
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("sec: unknown role %q", raw)
	}
	return role, nil
}
