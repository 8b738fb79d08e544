package lint

import (
	"slices"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// CheckFunc inspects a single node and returns at most one diagnostic.
//
// Check functions are pure: they read the node, the semantic model and the
// settings, and never mutate any of them. The analyzer fills in severity and
// documentation URL; a check only sets Message and Span.
type CheckFunc func(node syntax.Node, sem semantic.Model, settings *Settings) (Diagnostic, bool)

// RuleDef binds lint metadata to the node kinds it inspects and its check.
// Removed rules have a nil Check.
type RuleDef struct {
	Lint  *LintMetadata
	Kinds []syntax.Kind
	Check CheckFunc
}

// Name returns the name of the rule's lint.
func (r RuleDef) Name() LintName { return r.Lint.Name() }

// Applies reports whether the rule inspects nodes of the given kind.
func (r RuleDef) Applies(kind syntax.Kind) bool {
	return slices.Contains(r.Kinds, kind)
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a lint finding.
type Diagnostic struct {
	Rule     LintName
	Message  string
	Span     token.Span
	Severity core.Severity

	// DocumentationURL links to the rule's documentation page.
	DocumentationURL string
}

// Pos returns the start of the diagnostic's span.
func (d Diagnostic) Pos() token.Position { return d.Span.Start }

// compareDiagnostics orders diagnostics by position, then rule name.
func compareDiagnostics(a, b Diagnostic) int {
	if a.Span.Start.Offset != b.Span.Start.Offset {
		return a.Span.Start.Offset - b.Span.Start.Offset
	}
	switch {
	case a.Rule < b.Rule:
		return -1
	case a.Rule > b.Rule:
		return 1
	default:
		return 0
	}
}
