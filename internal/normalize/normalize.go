// Package normalize builds comparison keys for user-entered text.
//
// Keys are trimmed, NFC-normalized and case-folded, so "  Straße " and
// "STRASSE" produce the same key. The server uses them for duplicate
// detection and the client for filtering and sorting.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Key returns the comparison key of s.
func Key(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	// cases.Caser is stateful; a fresh one per call keeps Key safe for concurrent use.
	return cases.Fold().String(norm.NFC.String(s))
}

// OptionalKey returns "" for nil or blank input.
func OptionalKey(s *string) string {
	if s == nil {
		return ""
	}
	return Key(*s)
}

// Contains reports whether needle occurs in haystack, comparing keys. Both
// sides are trimmed first, so surrounding spaces in needle never matter; a
// blank needle matches everything.
func Contains(haystack, needle string) bool {
	n := Key(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Key(haystack), n)
}

// Compare orders a and b by their keys.
func Compare(a, b string) int {
	return strings.Compare(Key(a), Key(b))
}
