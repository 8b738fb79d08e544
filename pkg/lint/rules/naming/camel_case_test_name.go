package naming

import (
	_ "embed"
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

//go:embed docs/camel-case-test-name.md
var camelCaseTestNameDoc string

// OptionPrefix sets the test prefix camel-case-test-name looks for.
const OptionPrefix = "prefix"

var camelCaseTestNameLint = lint.Declare(lint.Declaration{
	Name:          "camel-case-test-name",
	Group:         "naming",
	Summary:       "Test names should not use camelCase.",
	Documentation: camelCaseTestNameDoc,
	DefaultLevel:  core.LevelWarn,
	Lifecycle:     core.LifecycleDeprecated("0.4.0", "superseded by `invalid-test-name`"),
})

// CamelCaseTestName flags testFoo-style names. Superseded by InvalidTestName.
var CamelCaseTestName = lint.RuleDef{
	Lint:  camelCaseTestNameLint,
	Kinds: []syntax.Kind{syntax.KindFunctionDef},
	Check: checkCamelCaseTestName,
}

func checkCamelCaseTestName(node syntax.Node, sem semantic.Model, settings *lint.Settings) (lint.Diagnostic, bool) {
	fn, ok := node.(*syntax.FunctionDef)
	if !ok {
		return lint.Diagnostic{}, false
	}

	rule := camelCaseTestNameLint.Name()
	prefix := lint.GetStringOption(settings.Options(rule), OptionPrefix, "test")
	if !hasCamelSuffix(fn.Name, prefix) {
		return lint.Diagnostic{}, false
	}
	if definedElsewhere(fn.Decorators, sem) || settings.IgnoreNames(rule).Matches(fn.Name) {
		return lint.Diagnostic{}, false
	}
	return lint.Diagnostic{
		Rule:    rule,
		Message: fmt.Sprintf("Test name `%s` uses camelCase", fn.Name),
		Span:    fn.NameSpan,
	}, true
}
