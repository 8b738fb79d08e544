// Package exclude implements the name allow-list consulted by naming rules.
//
// A PatternSet is compiled once from configuration and is immutable afterwards,
// so it can be shared by concurrently running rules.
package exclude

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// defaultNames are the unittest hooks and attributes that are never reported.
var defaultNames = []string{
	"setUp",
	"tearDown",
	"setUpClass",
	"tearDownClass",
	"setUpModule",
	"tearDownModule",
	"asyncSetUp",
	"asyncTearDown",
	"setUpTestData",
	"failureException",
	"longMessage",
	"maxDiff",
}

// PatternError reports a malformed glob pattern.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid exclusion pattern %q", e.Pattern)
}

// PatternSet is an ordered list of glob patterns matched against identifiers.
type PatternSet struct {
	patterns []string
}

// New compiles the given patterns. Every malformed pattern is reported.
func New(patterns ...string) (*PatternSet, error) {
	var errs []error
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, &PatternError{Pattern: p})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &PatternSet{patterns: slices.Clone(patterns)}, nil
}

// MustNew is like New but panics on a malformed pattern.
func MustNew(patterns ...string) *PatternSet {
	set, err := New(patterns...)
	if err != nil {
		panic(err)
	}
	return set
}

// Default returns the built-in allow-list.
func Default() *PatternSet {
	return &PatternSet{patterns: slices.Clone(defaultNames)}
}

// FromOptions builds the effective allow-list from configuration.
// A non-nil ignore replaces the defaults; extend is always appended.
func FromOptions(ignore, extend []string) (*PatternSet, error) {
	base := defaultNames
	if ignore != nil {
		base = ignore
	}
	return New(slices.Concat(base, extend)...)
}

// Extend returns a new set containing the receiver's patterns followed by patterns.
func (s *PatternSet) Extend(patterns ...string) (*PatternSet, error) {
	if len(patterns) == 0 {
		return s, nil
	}
	return New(slices.Concat(s.Patterns(), patterns)...)
}

// Matches reports whether name matches any pattern in the set.
func (s *PatternSet) Matches(name string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.patterns {
		// Patterns are validated on construction, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Patterns returns a copy of the patterns in the set.
func (s *PatternSet) Patterns() []string {
	if s == nil {
		return nil
	}
	return slices.Clone(s.patterns)
}

// Len returns the number of patterns.
func (s *PatternSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.patterns)
}
