// Package docs renders the rule catalog as markdown pages: an index and one
// page per rule group. Both the docs command and scripts/gendocs use it.
package docs

import (
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
)

// groupDescriptions provides human-readable descriptions for rule groups.
var groupDescriptions = map[string]string{
	"naming": "Rules about how tests, classes and other definitions are named.",
}

var titleCaser = cases.Title(language.English)

// Page is one generated file.
type Page struct {
	Name    string // file name relative to the output directory
	Content []byte
}

// Pages renders the index and one page per group, in group order.
func Pages(reg *lint.Registry) ([]Page, error) {
	index, err := RenderIndex(reg)
	if err != nil {
		return nil, err
	}
	pages := []Page{{Name: "index.md", Content: index}}
	for _, group := range reg.Groups() {
		content, err := RenderGroup(reg, group)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Name: group + ".md", Content: content})
	}
	return pages, nil
}

// Generate writes every page to outDir and returns the written paths.
func Generate(reg *lint.Registry, outDir string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	pages, err := Pages(reg)
	if err != nil {
		return nil, err
	}
	written := make([]string, 0, len(pages))
	for _, p := range pages {
		path := filepath.Join(outDir, p.Name)
		if err := os.WriteFile(path, p.Content, 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", p.Name, err)
		}
		logger.Debug("generated page", "path", path)
		written = append(written, path)
	}
	return written, nil
}

// RenderIndex renders the catalog overview.
func RenderIndex(reg *lint.Registry) ([]byte, error) {
	w := NewMarkdownWriter()
	w.Frontmatter(Frontmatter{Title: "Rules", Description: "Lint rules provided by leaplint"})
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("leaplint provides %d rules in %d groups.", reg.Len(), len(reg.Groups())))

	w.Header(2, "Levels")
	w.Table(
		[]string{"Level", "Effect"},
		[][]string{
			{InlineCode("ignore"), "The rule does not run"},
			{InlineCode("warn"), "Diagnostics are reported as warnings"},
			{InlineCode("error"), "Diagnostics are reported as errors"},
		},
	)

	w.Header(2, "Lifecycle")
	w.Table(
		[]string{"Status", "Meaning"},
		[][]string{
			{"Preview", "Runs only with " + InlineCode("--preview") + " or " + InlineCode("preview: true")},
			{"Stable", "Generally available"},
			{"Deprecated", "Still runs, with a warning; will be removed"},
			{"Removed", "Never runs; enabling it is a configuration error"},
		},
	)

	w.Header(2, "Configuration")
	w.Paragraph("Rules are configured in " + InlineCode("leaplint.yaml") + ":")
	w.CodeBlock("yaml", `lint:
  rules:
    invalid-test-name: error   # ignore | warn | error
  extend_ignore_names: ["*Legacy*"]`)

	w.Header(2, "All Rules")
	rows := make([][]string, 0, reg.Len())
	for _, m := range reg.Lints() {
		name := string(m.Name())
		rows = append(rows, []string{
			Link(InlineCode(name), m.Group()+"#"+name),
			m.Summary(),
			InlineCode(m.DefaultLevel().String()),
			StatusLabel(m.Lifecycle()),
		})
	}
	w.Table([]string{"Rule", "Summary", "Default", "Status"}, rows)

	return w.Bytes()
}

// RenderGroup renders every rule of one group with its full documentation.
func RenderGroup(reg *lint.Registry, group string) ([]byte, error) {
	title := titleCaser.String(group) + " Rules"
	w := NewMarkdownWriter()
	w.Frontmatter(Frontmatter{Title: title, Description: groupDescriptions[group]})
	w.GeneratedMarker()

	w.Header(1, title)
	if desc, ok := groupDescriptions[group]; ok {
		w.Paragraph(desc)
	}

	found := false
	for _, m := range reg.Lints() {
		if m.Group() != group {
			continue
		}
		found = true
		writeRule(w, reg, m)
	}
	if !found {
		return nil, fmt.Errorf("unknown rule group %q", group)
	}
	return w.Bytes()
}

// writeRule writes detailed documentation for a single rule.
func writeRule(w *MarkdownWriter, reg *lint.Registry, m *lint.LintMetadata) {
	name := string(m.Name())
	w.Line(fmt.Sprintf("## %s {#%s}", name, name))
	w.Newline()

	w.Paragraph(Badge(m.Lifecycle()))
	w.Line(fmt.Sprintf("**Default level:** %s", InlineCode(m.DefaultLevel().String())))
	if aliases := reg.Aliases(m.Name()); len(aliases) > 0 {
		names := make([]string, len(aliases))
		for i, a := range aliases {
			names[i] = InlineCode(string(a))
		}
		w.Newline()
		w.Line("**Aliases:** " + strings.Join(names, ", "))
	}
	w.Newline()

	w.Paragraph(m.Summary())
	for line := range ShiftHeadings(m.DocumentationLines(), 1) {
		w.Line(line)
	}
	w.Newline()
	w.Line("---")
	w.Newline()
}

// StatusLabel returns the title-cased lifecycle stage.
func StatusLabel(lc core.Lifecycle) string {
	return titleCaser.String(lc.Stage().String())
}

// Badge describes a lifecycle in one line of markdown.
func Badge(lc core.Lifecycle) string {
	switch lc := lc.(type) {
	case core.Preview:
		return fmt.Sprintf("**Preview** since %s. Enable preview mode to run this rule.", InlineCode(lc.Version))
	case core.Stable:
		return fmt.Sprintf("**Stable** since %s.", InlineCode(lc.Version))
	case core.Deprecated:
		return fmt.Sprintf("**Deprecated** since %s: %s.", InlineCode(lc.Version), lc.Reason)
	case core.Removed:
		return fmt.Sprintf("**Removed** since %s: %s.", InlineCode(lc.Version), lc.Reason)
	default:
		panic(fmt.Sprintf("docs: unhandled lifecycle %T", lc))
	}
}

// ShiftHeadings demotes ATX headings outside fenced code blocks by levels,
// so rule documentation nests under the rule's own heading.
func ShiftHeadings(lines iter.Seq[string], levels int) iter.Seq[string] {
	prefix := strings.Repeat("#", levels)
	return func(yield func(string) bool) {
		inFence := false
		for line := range lines {
			if strings.HasPrefix(line, "```") {
				inFence = !inFence
			} else if !inFence && strings.HasPrefix(line, "#") {
				line = prefix + line
			}
			if !yield(line) {
				return
			}
		}
	}
}
