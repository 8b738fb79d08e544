// Package config provides configuration management for the leaplint CLI.
//
// This package extends the shared project configuration from internal/config
// with CLI-specific fields. The shared lint types are defined in pkg/core and
// re-exported here via type aliases for convenience.
package config

import "github.com/leapstack-labs/leaplint/pkg/core"

// LintConfig is an alias for the shared lint configuration.
type LintConfig = core.LintConfig

// RuleOptions is an alias for the shared rule options type.
type RuleOptions = core.RuleOptions

// Output modes accepted by the output key.
const (
	OutputAuto     = "auto"
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
)

// Config holds all CLI configuration options.
type Config struct {
	Preview      bool       `koanf:"preview"`
	OutputFormat string     `koanf:"output"`
	Verbose      bool       `koanf:"verbose"`
	Workers      int        `koanf:"workers"`
	Cache        bool       `koanf:"cache"`
	Include      []string   `koanf:"include"`
	Exclude      []string   `koanf:"exclude"`
	DocsBaseURL  string     `koanf:"docs_url"`
	Lint         LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. It is resolved, never read from config.
	ProjectRoot string `koanf:"-"`
}
