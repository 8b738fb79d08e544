// Package rules is the rule catalog. It registers every rule exactly once and
// exposes the resulting registry.
package rules

import (
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules/naming"
)

// All returns every rule definition in catalog order, removed rules included.
func All() []lint.RuleDef {
	return []lint.RuleDef{
		naming.InvalidTestName,
		naming.InvalidClassName,
		naming.CamelCaseTestName,
		naming.UnittestTestPrefix,
	}
}

// Registry returns the process-wide lint registry, built on first use.
// Building panics if two rules share a name.
var Registry = sync.OnceValue(func() *lint.Registry {
	return Build(All())
})

// aliases maps previous rule names to their current name.
var aliases = []struct{ from, to lint.LintName }{
	{"mixed-case-test-name", "invalid-test-name"},
}

// Build registers the given rules, and the aliases of those rules, into a new registry.
func Build(defs []lint.RuleDef) *lint.Registry {
	b := lint.NewRegistryBuilder()
	registered := make(map[lint.LintName]bool, len(defs))
	for _, def := range defs {
		b.Register(def.Lint)
		registered[def.Name()] = true
	}
	for _, a := range aliases {
		if registered[a.to] {
			b.RegisterAlias(a.from, a.to)
		}
	}
	return b.Build()
}
