// Package dedupe collapses repeated values, keeping the first occurrence.
package dedupe

import "strings"

// Values drops later duplicates of any element. A nil or empty input is
// returned as is.
func Values[T comparable](values []T) []T {
	if len(values) < 2 {
		return values
	}
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Trimmed trims whitespace, drops blank entries and then duplicates.
//
//	Trimmed([]string{" aptitude ", "", "aptitude", "hr"}) // [aptitude hr]
func Trimmed(values []string) []string {
	if len(values) == 0 {
		return values
	}
	trimmed := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			trimmed = append(trimmed, v)
		}
	}
	return Values(trimmed)
}
