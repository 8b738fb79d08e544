package lint

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// SelectionOptions are the user's rule choices.
type SelectionOptions struct {
	// Levels overrides default levels, keyed by lint name or alias.
	Levels map[string]core.Level
	// Preview enables rules whose lifecycle is Preview.
	Preview bool
}

// Advisory is a non-fatal note produced while selecting rules.
type Advisory struct {
	Rule    LintName
	Message string
}

// SelectionError reports a rule name in the lint configuration that cannot be
// resolved. Section is the configuration table holding the name and defaults
// to "rules".
type SelectionError struct {
	Section string
	Rule    string
	Err     error
}

func (e *SelectionError) Error() string {
	section := e.Section
	if section == "" {
		section = "rules"
	}
	return fmt.Sprintf("lint.%s.%s: %v", section, e.Rule, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// Selection is the set of active lints and the severity each reports with.
// It is read-only after construction.
type Selection struct {
	active map[LintName]core.Severity
	order  []LintName
}

// NewSelection resolves the active rule set from the registry's defaults and
// the user's overrides.
//
// Unknown names and removed rules set to anything but ignore are configuration
// errors; all of them are returned together. Deprecated rules that end up active
// and preview rules requested without preview mode produce advisories, which
// are also logged at warn level.
func NewSelection(reg *Registry, opts SelectionOptions, logger *slog.Logger) (*Selection, []Advisory, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	overrides := make(map[LintName]core.Level, len(opts.Levels))
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(opts.Levels)) {
		level := opts.Levels[name]
		m, ok := reg.Lookup(name)
		if !ok {
			errs = append(errs, &SelectionError{Rule: name, Err: &GetLintError{Kind: GetLintUnknown, Name: name}})
			continue
		}
		if core.IsRemoved(m.Lifecycle()) && !level.IsIgnore() {
			_, err := reg.Get(name)
			errs = append(errs, &SelectionError{Rule: name, Err: err})
			continue
		}
		overrides[m.Name()] = level
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}

	sel := &Selection{active: make(map[LintName]core.Severity)}
	var advisories []Advisory
	advise := func(name LintName, msg string) {
		advisories = append(advisories, Advisory{Rule: name, Message: msg})
		logger.Warn(msg, "rule", string(name))
	}

	for _, m := range reg.Lints() {
		level, explicit := overrides[m.Name()]
		if !explicit {
			level = m.DefaultLevel()
		}

		switch lc := m.Lifecycle().(type) {
		case core.Removed:
			continue
		case core.Preview:
			if !opts.Preview {
				if explicit && !level.IsIgnore() {
					advise(m.Name(), fmt.Sprintf("rule %s is in preview since %s and requires preview mode", m.Name(), lc.Version))
				}
				continue
			}
		case core.Stable:
		case core.Deprecated:
			if !level.IsIgnore() {
				msg := fmt.Sprintf("rule %s is deprecated since %s", m.Name(), lc.Version)
				if lc.Reason != "" {
					msg += ": " + lc.Reason
				}
				advise(m.Name(), msg)
			}
		default:
			panic(fmt.Sprintf("lint: unhandled lifecycle %T for %s", lc, m.Name()))
		}

		sev, err := core.ResolveSeverity(level)
		if errors.Is(err, core.ErrNotReportable) {
			continue
		}
		sel.active[m.Name()] = sev
		sel.order = append(sel.order, m.Name())
	}

	return sel, advisories, nil
}

// Severity returns the severity an active rule reports with.
func (s *Selection) Severity(name LintName) (core.Severity, bool) {
	if s == nil {
		return 0, false
	}
	sev, ok := s.active[name]
	return sev, ok
}

// Enabled reports whether the rule is active.
func (s *Selection) Enabled(name LintName) bool {
	_, ok := s.Severity(name)
	return ok
}

// Active returns the active rules in registration order.
func (s *Selection) Active() []LintName {
	if s == nil {
		return nil
	}
	return slices.Clone(s.order)
}
