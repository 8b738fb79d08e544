package core

// =============================================================================
// RuleInfo
// =============================================================================

// RuleInfo provides metadata about a lint rule for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type RuleInfo struct {
	Name          string   `json:"name" yaml:"name"`
	Group         string   `json:"group" yaml:"group"`
	Summary       string   `json:"summary" yaml:"summary"`
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	DefaultLevel  string   `json:"default_level" yaml:"default_level"`
	Status        string   `json:"status" yaml:"status"`
	Since         string   `json:"since" yaml:"since"`
	Reason        string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	// Declaration provenance
	File string `json:"file" yaml:"file"`
	Line int    `json:"line" yaml:"line"`
}
