// Copyright (c) 2026 Daybook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// # Usage
//
// Expense categories are addressable by slug ("eating-out") as well as by id.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// separators matches every run of characters that cannot appear in a slug.
	separators = regexp.MustCompile(`[^a-z0-9]+`)
	// pattern matches a well-formed slug.
	pattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// Accents are stripped after NFD decomposition, the result is lowercased and
// every run of other characters becomes a single hyphen. Scripts without an
// ASCII decomposition (e.g. Cyrillic) yield an empty slug.
func From(s string) string {
	stripAccents := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		result = s
	}

	result = separators.ReplaceAllString(strings.ToLower(result), "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return pattern.MatchString(s)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
