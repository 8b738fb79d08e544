package naming

import (
	_ "embed"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/syntax"
)

//go:embed docs/unittest-test-prefix.md
var unittestTestPrefixDoc string

// UnittestTestPrefix required a "test" prefix on TestCase methods. It has been
// removed and has no check; selecting it is a configuration error.
var UnittestTestPrefix = lint.RuleDef{
	Lint: lint.Declare(lint.Declaration{
		Name:          "unittest-test-prefix",
		Group:         "naming",
		Summary:       "TestCase methods should start with `test`.",
		Documentation: unittestTestPrefixDoc,
		DefaultLevel:  core.LevelError,
		Lifecycle:     core.LifecycleRemoved("0.5.0", "test discovery already ignores unprefixed methods"),
	}),
	Kinds: []syntax.Kind{syntax.KindFunctionDef},
}
