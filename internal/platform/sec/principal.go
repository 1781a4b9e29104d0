// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Resolved Identity

// Principal is the authenticated actor attached to a request once its bearer
// token has been verified and the account has been loaded.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   Role

	// Scopes are the scopes granted by the token, not the role maximum.
	Scopes ScopeSet

	// Synthetic marks the development bypass identity.
	Synthetic bool
}

// HasScope reports whether the principal's token grants scope.
func (principal *Principal) HasScope(scope Scope) bool {
	return principal != nil && principal.Scopes.Has(scope)
}

// IsAdministrator reports whether the principal holds the administrator role.
func (principal *Principal) IsAdministrator() bool {
	return principal != nil && principal.Role == RoleAdministrator
}
