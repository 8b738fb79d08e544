package naming

import (
	_ "embed"
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/exclude"
	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
	"github.com/leapstack-labs/leaplint/pkg/token"
)

//go:embed docs/invalid-test-name.md
var invalidTestNameDoc string

var invalidTestNameLint = lint.Declare(lint.Declaration{
	Name:          "invalid-test-name",
	Group:         "naming",
	Summary:       "Test names should follow the test__[object]__[description] pattern.",
	Documentation: invalidTestNameDoc,
	DefaultLevel:  core.LevelWarn,
	Lifecycle:     core.LifecycleStable("0.1.0"),
})

// InvalidTestName flags test functions whose names are not lowercase.
var InvalidTestName = lint.RuleDef{
	Lint:  invalidTestNameLint,
	Kinds: []syntax.Kind{syntax.KindFunctionDef},
	Check: checkInvalidTestName,
}

func checkInvalidTestName(node syntax.Node, sem semantic.Model, settings *lint.Settings) (lint.Diagnostic, bool) {
	fn, ok := node.(*syntax.FunctionDef)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return EvaluateTestName(fn.Name, fn.NameSpan, fn.Decorators, settings.IgnoreNames(invalidTestNameLint.Name()), sem)
}

// EvaluateTestName is the invalid-test-name predicate.
//
// Checks run cheapest first: lowercase names are accepted without touching the
// semantic model, then override and overload decorators suppress, then the
// allow-list. Only a name that passes none of them is reported, anchored to span.
func EvaluateTestName(
	name string,
	span token.Span,
	decorators []syntax.Decorator,
	ignoreNames *exclude.PatternSet,
	sem semantic.Model,
) (lint.Diagnostic, bool) {
	if isLowercase(name) {
		return lint.Diagnostic{}, false
	}
	if definedElsewhere(decorators, sem) {
		return lint.Diagnostic{}, false
	}
	if ignoreNames.Matches(name) {
		return lint.Diagnostic{}, false
	}
	return lint.Diagnostic{
		Rule:    invalidTestNameLint.Name(),
		Message: fmt.Sprintf("Test name `%s` should follow test__[object]__[description] pattern", name),
		Span:    span,
	}, true
}
