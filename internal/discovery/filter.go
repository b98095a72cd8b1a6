package discovery

import (
	"path/filepath"
	"strings"

	"iat/internal/domain"
)

// Filter filters cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName keeps cases whose ID or name matches pattern using wildcard
// matching. Supports patterns like "nowcast-extrapolate/*" or "*json*".
func (f *Filter) FilterByName(cases []domain.Case, pattern string) []domain.Case {
	if pattern == "" {
		return cases
	}

	var filtered []domain.Case
	for _, c := range cases {
		if Matches(c.ID(), pattern) || Matches(c.Name, pattern) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Matches reports whether name matches pattern: a filepath.Match glob, then
// all non-empty "*"-separated parts as substrings, then a plain substring
// when the pattern has no wildcards.
func Matches(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	// Try to match using filepath.Match (supports * and ? wildcards)
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*json*"
	if strings.Contains(pattern, "*") {
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
