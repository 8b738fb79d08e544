// Package lint provides the rule metadata registry and the rule execution core.
//
// # Architecture
//
// The package is organised in three layers:
//
//  1. Metadata: LintMetadata values created with Declare, collected by a
//     RegistryBuilder and frozen into a read-only Registry.
//  2. Selection: NewSelection combines the registry's default levels and
//     lifecycles with user configuration into the set of active rules.
//  3. Execution: an Analyzer walks parsed modules and dispatches each node to
//     the active RuleDefs registered for its kind.
//
// # Declaring Rules
//
// Rules declare their metadata in package-level variables. The declaration
// site is recorded for documentation and error messages:
//
//	var InvalidTestName = lint.RuleDef{
//		Lint: lint.Declare(lint.Declaration{
//			Name:         "invalid-test-name",
//			Group:        "naming",
//			Summary:      "Checks test function names",
//			DefaultLevel: core.LevelWarn,
//			Lifecycle:    core.LifecycleStable("0.1.0"),
//		}),
//		Kinds: []syntax.Kind{syntax.KindFunctionDef},
//		Check: checkInvalidTestName,
//	}
//
// Registration is explicit and happens once; see package rules.
//
// # Configuration
//
// Settings compiles the allow-list and per-rule options, SelectionOptions
// carries level overrides and preview mode:
//
//	settings, err := lint.NewSettings(reg, &cfg.Lint)
//	sel, advisories, err := lint.NewSelection(reg, lint.SelectionOptions{
//		Levels:  cfg.Lint.LevelOverrides(),
//		Preview: cfg.Preview,
//	}, logger)
//	analyzer := lint.NewAnalyzer(rules.All(), sel, settings)
package lint
