package app

import (
	"github.com/bmatcuk/doublestar/v4"

	"fontex/internal/domain"
)

const DefaultPattern = "*"

// Matcher reports whether a font name is selected by a compiled pattern.
type Matcher func(name string) bool

// CompilePattern validates a shell-style glob once. Besides *, ? and
// bracket classes it accepts {a,b} alternation. Matching is case-sensitive.
// An empty pattern selects everything.
func CompilePattern(pattern string) (Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, &PathError{Op: ErrInvalidPattern, Path: pattern, Err: doublestar.ErrBadPattern}
	}
	return func(name string) bool {
		matched, err := doublestar.Match(pattern, name)
		return err == nil && matched
	}, nil
}

// Filter keeps the records whose name matches, preserving order.
func Filter(records []domain.FontRecord, match Matcher) []domain.FontRecord {
	var out []domain.FontRecord
	for _, record := range records {
		if match(record.Name) {
			out = append(out, record)
		}
	}
	return out
}
