// Package core defines the shared language of the leaplint system.
//
// This package contains:
//   - Severity and Level, and the mapping between them
//   - The rule Lifecycle sum type (Preview, Stable, Deprecated, Removed)
//   - RuleInfo, the rule metadata DTO used by tooling and documentation
//   - Configuration types shared by the CLI and library callers (LintConfig)
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
