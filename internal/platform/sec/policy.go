// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
)

// ErrUnmappedRole is returned when a role has no entry in the policy table.
var ErrUnmappedRole = errors.New("sec: role has no scope mapping")

// # Role Policy

// Policy is the immutable role → allowed-scopes table.
//
// # Concurrency
//
// A Policy is never mutated after [NewPolicy] returns, so one instance is
// shared by every request without locking.
type Policy struct {
	grants map[Role]ScopeSet
}

// DefaultGrants returns the stock role table. Administrators receive the whole
// universe; regular users receive everything except user administration.
func DefaultGrants() map[Role][]Scope {
	userScopes := make([]Scope, 0, len(universe))
	for _, scope := range universe {
		if scope == ScopeUsersRead || scope == ScopeUsersWrite {
			continue
		}
		userScopes = append(userScopes, scope)
	}

	return map[Role][]Scope{
		RoleAdministrator: append([]Scope(nil), universe...),
		RoleUser:          userScopes,
	}
}

// NewPolicy validates the grant table and freezes it.
//
// It fails when a role of the closed enum has no entry, when the table names
// an unknown role, or when a grant references a scope outside the universe.
// Call it once at startup so misconfiguration stops the process early.
func NewPolicy(grants map[Role][]Scope) (*Policy, error) {
	frozen := make(map[Role]ScopeSet, len(grants))

	for role, scopes := range grants {
		if !role.IsValid() {
			return nil, fmt.Errorf("sec: policy references unknown role %q", role)
		}
		for _, scope := range scopes {
			if !scope.IsValid() {
				return nil, fmt.Errorf("sec: role %q grants unknown scope %q", role, scope)
			}
		}
		frozen[role] = NewScopeSet(scopes...)
	}

	for _, role := range Roles() {
		if _, ok := frozen[role]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnmappedRole, role)
		}
	}

	return &Policy{grants: frozen}, nil
}

// MustNewPolicy is [NewPolicy] for static tables; it panics on error.
func MustNewPolicy(grants map[Role][]Scope) *Policy {
	policy, err := NewPolicy(grants)
	if err != nil {
		panic(err)
	}
	return policy
}

// ScopesForRole returns a copy of the scopes the role may hold.
func (policy *Policy) ScopesForRole(role Role) (ScopeSet, error) {
	scopes, ok := policy.grants[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnmappedRole, role)
	}
	return scopes.Clone(), nil
}

// Grant narrows the allowed set to what the client asked for.
//
// An empty request receives everything allowed; otherwise the result is the
// intersection. The result is never a superset of allowed.
func Grant(requested, allowed ScopeSet) ScopeSet {
	if len(requested) == 0 {
		return allowed.Clone()
	}
	return requested.Intersect(allowed)
}
