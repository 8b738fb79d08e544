package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

var validOutputs = []string{OutputAuto, OutputText, OutputMarkdown, OutputJSON}

// Validate checks the values that cannot be checked by decoding alone.
// Rule names and ignore-name patterns are validated later, against the registry.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validOutputs, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output: invalid value %q (must be auto, text, markdown or json)", c.OutputFormat))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: must not be negative, got %d", c.Workers))
	}
	for _, p := range c.Include {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("include: invalid pattern %q", p))
		}
	}
	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("exclude: invalid pattern %q", p))
		}
	}
	return errors.Join(errs...)
}
