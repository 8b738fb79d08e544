package core

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity is the reporting-side severity of a lint diagnostic.
//
// There is deliberately no "suppressed" severity: a rule whose level is
// LevelIgnore resolves to ErrNotReportable instead of a Severity value.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	default:
		return SeverityWarning, false
	}
}

// =============================================================================
// Level
// =============================================================================

// Level is the requested strictness of a rule, either its default or a user override.
type Level int

// Rule levels.
const (
	// LevelIgnore disables the rule; it never produces diagnostics.
	LevelIgnore Level = iota
	// LevelWarn enables the rule with warning severity.
	LevelWarn
	// LevelError enables the rule with error severity.
	LevelError
)

// String returns the configuration spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelIgnore:
		return "ignore"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// IsIgnore reports whether the level disables the rule.
func (l Level) IsIgnore() bool { return l == LevelIgnore }

// IsWarn reports whether the level is LevelWarn.
func (l Level) IsWarn() bool { return l == LevelWarn }

// IsError reports whether the level is LevelError.
func (l Level) IsError() bool { return l == LevelError }

// ParseLevel converts a configuration value to a Level.
// Accepts ignore/off, warn/warning and error, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "off":
		return LevelIgnore, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelIgnore, fmt.Errorf("invalid level %q (must be ignore, warn or error)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ErrNotReportable is returned by ResolveSeverity for LevelIgnore.
// It is a "do not emit" signal rather than a failure.
var ErrNotReportable = errors.New("level is not reportable")

// ResolveSeverity maps a requested level to the severity diagnostics are reported with.
func ResolveSeverity(level Level) (Severity, error) {
	switch level {
	case LevelWarn:
		return SeverityWarning, nil
	case LevelError:
		return SeverityError, nil
	default:
		return 0, ErrNotReportable
	}
}
