package lint

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint/exclude"
)

// OptionExtendIgnoreNames is the per-rule option that adds allow-list patterns
// for a single rule.
const OptionExtendIgnoreNames = "extend_ignore_names"

// Settings is the compiled, read-only configuration passed to every check.
type Settings struct {
	ignoreNames *exclude.PatternSet
	perRule     map[LintName]*exclude.PatternSet
	options     map[LintName]core.RuleOptions
}

// DefaultSettings returns settings with the built-in allow-list and no options.
func DefaultSettings() *Settings {
	return &Settings{ignoreNames: exclude.Default()}
}

// NewSettings compiles lint configuration. Malformed patterns are reported here,
// once, rather than during analysis.
//
// Option keys are resolved through reg, so an alias configures the rule it
// points to. Unknown keys and two keys naming the same rule are errors. With a
// nil registry keys are taken as written.
func NewSettings(reg *Registry, cfg *core.LintConfig) (*Settings, error) {
	if cfg == nil {
		return DefaultSettings(), nil
	}
	ignore, err := exclude.FromOptions(cfg.IgnoreNames, cfg.ExtendIgnoreNames)
	if err != nil {
		return nil, fmt.Errorf("lint.ignore_names: %w", err)
	}

	s := &Settings{
		ignoreNames: ignore,
		perRule:     make(map[LintName]*exclude.PatternSet),
		options:     make(map[LintName]core.RuleOptions, len(cfg.Options)),
	}
	var errs []error
	keys := make(map[LintName]string, len(cfg.Options))
	for _, name := range slices.Sorted(maps.Keys(cfg.Options)) {
		opts := cfg.Options[name]
		rule := LintName(name)
		if reg != nil {
			m, ok := reg.Lookup(name)
			if !ok {
				errs = append(errs, &SelectionError{
					Section: "options",
					Rule:    name,
					Err:     &GetLintError{Kind: GetLintUnknown, Name: name},
				})
				continue
			}
			rule = m.Name()
		}
		if prev, dup := keys[rule]; dup {
			errs = append(errs, &SelectionError{
				Section: "options",
				Rule:    name,
				Err:     fmt.Errorf("%s is already configured as %s", rule, prev),
			})
			continue
		}
		keys[rule] = name

		s.options[rule] = opts
		extra := GetStringSliceOption(opts, OptionExtendIgnoreNames, nil)
		if len(extra) == 0 {
			continue
		}
		set, err := ignore.Extend(extra...)
		if err != nil {
			errs = append(errs, fmt.Errorf("lint.options.%s.%s: %w", name, OptionExtendIgnoreNames, err))
			continue
		}
		s.perRule[rule] = set
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// IgnoreNames returns the allow-list that applies to the given rule.
func (s *Settings) IgnoreNames(rule LintName) *exclude.PatternSet {
	if s == nil {
		return exclude.Default()
	}
	if set, ok := s.perRule[rule]; ok {
		return set
	}
	return s.ignoreNames
}

// Options returns the free-form options configured for a rule.
func (s *Settings) Options(rule LintName) map[string]any {
	if s == nil {
		return nil
	}
	return s.options[rule]
}
