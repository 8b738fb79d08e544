package lint

import (
	"fmt"
	"iter"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/leapstack-labs/leaplint/pkg/core"
)

// =============================================================================
// Lint names
// =============================================================================

// LintName is the kebab-case identifier of a lint, e.g. "invalid-test-name".
type LintName string

// String returns the name as a plain string.
func (n LintName) String() string { return string(n) }

var lintNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidName reports whether s is a well-formed lint name:
// lowercase ASCII letters and digits separated by single hyphens.
func ValidName(s string) bool {
	return lintNamePattern.MatchString(s)
}

// =============================================================================
// Metadata
// =============================================================================

// Declaration is the input to Declare.
type Declaration struct {
	Name    string
	Group   string
	Summary string

	// Documentation is the raw documentation block, usually a raw string
	// literal indented by one space.
	Documentation string

	// DefaultLevel is the level used when configuration does not override it.
	// The zero value, core.LevelIgnore, declares an opt-in rule.
	DefaultLevel core.Level

	// Lifecycle defaults to Preview("0.0.0").
	Lifecycle core.Lifecycle
}

// LintMetadata describes a lint. It is created once by Declare and never mutated.
type LintMetadata struct {
	name         LintName
	group        string
	summary      string
	rawDoc       string
	defaultLevel core.Level
	lifecycle    core.Lifecycle
	file         string
	line         int
}

// Declare creates lint metadata, recording the caller's file and line as
// the declaration site. It panics if the name is not a valid lint name.
//
// Declare is meant to be called from package-level variable declarations.
func Declare(d Declaration) *LintMetadata {
	_, file, line, _ := runtime.Caller(1)
	return declareAt(d, trimSourcePath(file), line)
}

func declareAt(d Declaration, file string, line int) *LintMetadata {
	if !ValidName(d.Name) {
		panic(fmt.Sprintf("lint: invalid lint name %q declared at %s:%d", d.Name, file, line))
	}
	lc := d.Lifecycle
	if lc == nil {
		lc = core.LifecyclePreview("0.0.0")
	}
	return &LintMetadata{
		name:         LintName(d.Name),
		group:        d.Group,
		summary:      d.Summary,
		rawDoc:       d.Documentation,
		defaultLevel: d.DefaultLevel,
		lifecycle:    lc,
		file:         file,
		line:         line,
	}
}

// trimSourcePath keeps the module-relative part of a source path.
func trimSourcePath(file string) string {
	if i := strings.LastIndex(file, "/pkg/"); i >= 0 {
		return file[i+1:]
	}
	return file
}

// Name returns the unique lint name.
func (m *LintMetadata) Name() LintName { return m.name }

// Group returns the rule category, e.g. "naming".
func (m *LintMetadata) Group() string { return m.group }

// Summary returns the one-line description.
func (m *LintMetadata) Summary() string { return m.summary }

// RawDocumentation returns the documentation exactly as declared.
func (m *LintMetadata) RawDocumentation() string { return m.rawDoc }

// DefaultLevel returns the level used when no override is configured.
func (m *LintMetadata) DefaultLevel() core.Level { return m.defaultLevel }

// Lifecycle returns the lint's lifecycle status.
func (m *LintMetadata) Lifecycle() core.Lifecycle { return m.lifecycle }

// File returns the source file the lint was declared in.
func (m *LintMetadata) File() string { return m.file }

// Line returns the 1-based line of the declaration.
func (m *LintMetadata) Line() int { return m.line }

// Location returns the declaration site as file:line.
func (m *LintMetadata) Location() string {
	return fmt.Sprintf("%s:%d", m.file, m.line)
}

// DocumentationLines yields the normalized documentation, one line at a time.
//
// Each line has its terminator removed, then at most one leading space, then
// all trailing whitespace. A final newline does not produce an empty line.
// The sequence can be ranged over any number of times.
func (m *LintMetadata) DocumentationLines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range strings.Lines(m.rawDoc) {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			line = strings.TrimPrefix(line, " ")
			line = strings.TrimRightFunc(line, unicode.IsSpace)
			if !yield(line) {
				return
			}
		}
	}
}

// Documentation returns the normalized documentation lines joined by "\n".
func (m *LintMetadata) Documentation() string {
	return strings.Join(slices.Collect(m.DocumentationLines()), "\n")
}

// Info converts the metadata to its tooling DTO.
func (m *LintMetadata) Info() core.RuleInfo {
	return core.RuleInfo{
		Name:          string(m.name),
		Group:         m.group,
		Summary:       m.summary,
		Documentation: m.Documentation(),
		DefaultLevel:  m.defaultLevel.String(),
		Status:        m.lifecycle.Stage().String(),
		Since:         m.lifecycle.Since(),
		Reason:        core.LifecycleReason(m.lifecycle),
		File:          m.file,
		Line:          m.line,
	}
}
