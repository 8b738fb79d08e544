package config

import (
	"github.com/leapstack-labs/leaplint/internal/python"
	"github.com/leapstack-labs/leaplint/pkg/core"
)

// Default configuration values.
const (
	DefaultOutput  = "auto"
	DefaultWorkers = 0
)

// DefaultInclude is the file pattern list used when no include patterns are configured.
var DefaultInclude = python.DefaultInclude

// Defaults returns the flat default key map fed to koanf before any file is read.
func Defaults() map[string]any {
	return map[string]any{
		"preview": false,
		"cache":   false,
		"output":  DefaultOutput,
		"verbose": false,
		"workers": DefaultWorkers,
		"include": append([]string(nil), DefaultInclude...),
		"exclude": []string{},
	}
}

// ApplyDefaults applies default values to a ProjectConfig.
func ApplyDefaults(c *ProjectConfig) {
	if c == nil {
		return
	}
	if len(c.Include) == 0 {
		c.Include = append([]string(nil), DefaultInclude...)
	}
	if c.Lint.Rules == nil {
		c.Lint.Rules = make(map[string]core.Level)
	}
}
