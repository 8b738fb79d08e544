package core

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Rules maps rule name to a level override (ignore, warn, error).
	Rules map[string]Level `koanf:"rules"`

	// IgnoreNames replaces the default allowed names when set.
	IgnoreNames []string `koanf:"ignore_names"`

	// ExtendIgnoreNames adds allowed name patterns on top of IgnoreNames or the defaults.
	ExtendIgnoreNames []string `koanf:"extend_ignore_names"`

	// Options contains rule-specific options.
	Options map[string]RuleOptions `koanf:"options"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any

// LevelOverrides returns the configured level overrides keyed by rule name.
// The returned map is a copy.
func (c *LintConfig) LevelOverrides() map[string]Level {
	if c == nil || len(c.Rules) == 0 {
		return nil
	}
	out := make(map[string]Level, len(c.Rules))
	for name, level := range c.Rules {
		out[name] = level
	}
	return out
}
