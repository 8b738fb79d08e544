package naming

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/semantic"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

//go:embed docs/invalid-class-name.md
var invalidClassNameDoc string

// OptionAllowLeadingUnderscore controls whether private classes (_Name) are accepted.
const OptionAllowLeadingUnderscore = "allow_leading_underscore"

var invalidClassNameLint = lint.Declare(lint.Declaration{
	Name:          "invalid-class-name",
	Group:         "naming",
	Summary:       "Class names should use the CapWords convention.",
	Documentation: invalidClassNameDoc,
	DefaultLevel:  core.LevelWarn,
	Lifecycle:     core.LifecyclePreview("0.3.0"),
})

// InvalidClassName flags class names that do not use CapWords.
var InvalidClassName = lint.RuleDef{
	Lint:  invalidClassNameLint,
	Kinds: []syntax.Kind{syntax.KindClassDef},
	Check: checkInvalidClassName,
}

func checkInvalidClassName(node syntax.Node, _ semantic.Model, settings *lint.Settings) (lint.Diagnostic, bool) {
	cls, ok := node.(*syntax.ClassDef)
	if !ok {
		return lint.Diagnostic{}, false
	}

	rule := invalidClassNameLint.Name()
	allowUnderscore := lint.GetBoolOption(settings.Options(rule), OptionAllowLeadingUnderscore, true)
	if isCapWords(cls.Name) && (allowUnderscore || !strings.HasPrefix(cls.Name, "_")) {
		return lint.Diagnostic{}, false
	}
	if settings.IgnoreNames(rule).Matches(cls.Name) {
		return lint.Diagnostic{}, false
	}
	return lint.Diagnostic{
		Rule:    rule,
		Message: fmt.Sprintf("Class name `%s` should use CapWords convention", cls.Name),
		Span:    cls.NameSpan,
	}, true
}
