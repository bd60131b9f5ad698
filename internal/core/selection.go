package core

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// Selection is a conjunction of SQL fragments over the log store plus the
// named parameters they reference (@name placeholders).
type Selection struct {
	Fragments []string
	Params    map[string]any
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{Params: make(map[string]any)}
}

// Add appends a fragment and binds its parameters. A parameter name may only
// be bound once per selection.
func (s *Selection) Add(fragment string, params map[string]any) error {
	if s.Params == nil {
		s.Params = make(map[string]any)
	}
	for name := range params {
		if _, exists := s.Params[name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateParam, name)
		}
	}
	for name, value := range params {
		s.Params[name] = value
	}
	s.Fragments = append(s.Fragments, fragment)
	return nil
}

// Placeholders returns the distinct parameter names referenced by the
// fragments, sorted.
func (s *Selection) Placeholders() []string {
	seen := make(map[string]struct{})
	for _, fragment := range s.Fragments {
		for _, m := range placeholderPattern.FindAllStringSubmatch(fragment, -1) {
			seen[m[1]] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks that every placeholder has a parameter and every
// parameter is referenced by some fragment.
func (s *Selection) Validate() error {
	used := s.Placeholders()
	for _, name := range used {
		if _, ok := s.Params[name]; !ok {
			return fmt.Errorf("%w: @%s has no value", ErrUnboundParam, name)
		}
	}
	for name := range s.Params {
		if !slices.Contains(used, name) {
			return fmt.Errorf("%w: %s is never referenced", ErrUnboundParam, name)
		}
	}
	return nil
}

// Empty reports whether the selection has no fragments.
func (s *Selection) Empty() bool {
	return len(s.Fragments) == 0
}

// SQL returns the fragments joined with AND, each parenthesized.
func (s *Selection) SQL() string {
	if len(s.Fragments) == 0 {
		return ""
	}
	parts := make([]string, len(s.Fragments))
	for i, f := range s.Fragments {
		parts[i] = "(" + f + ")"
	}
	return strings.Join(parts, " AND ")
}
