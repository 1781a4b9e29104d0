// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer holds small generic helpers for optional fields.

PATCH payloads decode into pointer fields where nil means "leave as is";
these helpers merge such a field into the stored value.
*/
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, returning current when p is nil.
func Fallback[T any](p *T, current T) T {
	if p == nil {
		return current
	}
	return *p
}
