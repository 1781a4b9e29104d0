// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"sort"
	"strings"
)

// # Scope Universe

// Scope is a named permission gating one class of operation ("tasks:read").
type Scope string

const (
	ScopeUsersRead  Scope = "users:read"
	ScopeUsersWrite Scope = "users:write"
	ScopeMeRead     Scope = "me:read"

	ScopeNoteCreate Scope = "note:create"
	ScopeNoteRead   Scope = "note:read"
	ScopeNoteUpdate Scope = "note:update"
	ScopeNoteDelete Scope = "note:delete"

	ScopeTasksRead   Scope = "tasks:read"
	ScopeTasksWrite  Scope = "tasks:write"
	ScopeTasksUpdate Scope = "tasks:update"
	ScopeTasksDelete Scope = "tasks:delete"

	ScopeEventsRead   Scope = "events:read"
	ScopeEventsCreate Scope = "events:create"
	ScopeEventsUpdate Scope = "events:update"
	ScopeEventsDelete Scope = "events:delete"

	ScopeExpensesRead   Scope = "expenses:read"
	ScopeExpensesCreate Scope = "expenses:create"
	ScopeExpensesUpdate Scope = "expenses:update"
	ScopeExpensesDelete Scope = "expenses:delete"

	ScopeCategoriesRead  Scope = "expense_categories:read"
	ScopeCategoriesWrite Scope = "expense_categories:write"
)

// universe is the complete, process-wide list of scopes.
var universe = []Scope{
	ScopeUsersRead, ScopeUsersWrite, ScopeMeRead,
	ScopeNoteCreate, ScopeNoteRead, ScopeNoteUpdate, ScopeNoteDelete,
	ScopeTasksRead, ScopeTasksWrite, ScopeTasksUpdate, ScopeTasksDelete,
	ScopeEventsRead, ScopeEventsCreate, ScopeEventsUpdate, ScopeEventsDelete,
	ScopeExpensesRead, ScopeExpensesCreate, ScopeExpensesUpdate, ScopeExpensesDelete,
	ScopeCategoriesRead, ScopeCategoriesWrite,
}

// Universe returns a fresh set holding every known scope.
func Universe() ScopeSet {
	return NewScopeSet(universe...)
}

// IsValid reports whether s is part of the scope universe.
func (s Scope) IsValid() bool {
	for _, known := range universe {
		if s == known {
			return true
		}
	}
	return false
}

// String returns the wire form of the scope.
func (s Scope) String() string {
	return string(s)
}

// # Scope Sets

// ScopeSet is an unordered collection of scopes.
//
// Sets handed out by [Policy] are copies, so callers may mutate them freely.
type ScopeSet map[Scope]struct{}

// NewScopeSet builds a set from the given scopes, dropping duplicates.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, scope := range scopes {
		set[scope] = struct{}{}
	}
	return set
}

// ParseScopes splits an OAuth2-style space-delimited scope string.
// Unknown names are kept; intersecting with an allowed set removes them.
func ParseScopes(raw string) ScopeSet {
	return FromStrings(strings.Fields(raw))
}

// FromStrings converts raw strings (e.g. a token claim) into a set.
func FromStrings(values []string) ScopeSet {
	set := make(ScopeSet, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			set[Scope(value)] = struct{}{}
		}
	}
	return set
}

// Has reports whether the set contains scope.
func (set ScopeSet) Has(scope Scope) bool {
	_, ok := set[scope]
	return ok
}

// Missing returns the required scopes absent from the set, in input order.
func (set ScopeSet) Missing(required ...Scope) []Scope {
	var missing []Scope
	for _, scope := range required {
		if !set.Has(scope) {
			missing = append(missing, scope)
		}
	}
	return missing
}

// Intersect returns the scopes present in both sets.
func (set ScopeSet) Intersect(other ScopeSet) ScopeSet {
	result := make(ScopeSet)
	for scope := range set {
		if other.Has(scope) {
			result[scope] = struct{}{}
		}
	}
	return result
}

// SubsetOf reports whether every scope in set is also in other.
func (set ScopeSet) SubsetOf(other ScopeSet) bool {
	for scope := range set {
		if !other.Has(scope) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the set.
func (set ScopeSet) Clone() ScopeSet {
	clone := make(ScopeSet, len(set))
	for scope := range set {
		clone[scope] = struct{}{}
	}
	return clone
}

// Strings returns the scopes sorted lexically. Never nil.
func (set ScopeSet) Strings() []string {
	values := make([]string, 0, len(set))
	for scope := range set {
		values = append(values, string(scope))
	}
	sort.Strings(values)
	return values
}

// String renders the set in OAuth2 space-delimited form.
func (set ScopeSet) String() string {
	return strings.Join(set.Strings(), " ")
}

// JoinScopes renders a scope list in space-delimited form, preserving order.
func JoinScopes(scopes []Scope) string {
	values := make([]string, len(scopes))
	for i, scope := range scopes {
		values[i] = string(scope)
	}
	return strings.Join(values, " ")
}
