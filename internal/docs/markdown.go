package docs

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// GeneratedMarker is written below the frontmatter of every generated page.
const GeneratedMarker = "<!-- Code generated by leaplint docs. DO NOT EDIT. -->"

// Frontmatter is the YAML header of a generated page.
type Frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
}

// MarkdownWriter accumulates a markdown document.
type MarkdownWriter struct {
	buf bytes.Buffer
	err error
}

// NewMarkdownWriter returns an empty writer.
func NewMarkdownWriter() *MarkdownWriter {
	return &MarkdownWriter{}
}

// Frontmatter writes fm as a YAML block delimited by ---.
func (w *MarkdownWriter) Frontmatter(fm Frontmatter) {
	out, err := yaml.Marshal(fm)
	if err != nil {
		w.err = fmt.Errorf("frontmatter: %w", err)
		return
	}
	w.Line("---")
	w.buf.Write(out)
	w.Line("---")
	w.Newline()
}

// GeneratedMarker writes the do-not-edit comment.
func (w *MarkdownWriter) GeneratedMarker() {
	w.Line(GeneratedMarker)
	w.Newline()
}

// Header writes an ATX heading followed by a blank line.
func (w *MarkdownWriter) Header(level int, text string) {
	w.Line(strings.Repeat("#", level) + " " + text)
	w.Newline()
}

// Paragraph writes text followed by a blank line.
func (w *MarkdownWriter) Paragraph(text string) {
	w.Line(text)
	w.Newline()
}

// BulletList writes one bullet per item.
func (w *MarkdownWriter) BulletList(items []string) {
	for _, item := range items {
		w.Line("- " + item)
	}
	w.Newline()
}

// CodeBlock writes a fenced code block.
func (w *MarkdownWriter) CodeBlock(lang, code string) {
	w.Line("```" + lang)
	w.Line(strings.TrimRight(code, "\n"))
	w.Line("```")
	w.Newline()
}

// Table writes a pipe table. Pipes inside cells are escaped.
func (w *MarkdownWriter) Table(headers []string, rows [][]string) {
	w.Line("| " + strings.Join(escapeCells(headers), " | ") + " |")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	w.Line("| " + strings.Join(sep, " | ") + " |")
	for _, row := range rows {
		w.Line("| " + strings.Join(escapeCells(row), " | ") + " |")
	}
	w.Newline()
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}

// Line writes s and a newline.
func (w *MarkdownWriter) Line(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// Newline writes an empty line.
func (w *MarkdownWriter) Newline() {
	w.buf.WriteByte('\n')
}

// Bytes returns the document with a single trailing newline, or the first
// error met while writing it.
func (w *MarkdownWriter) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := bytes.TrimRight(w.buf.Bytes(), "\n")
	return append(out, '\n'), nil
}

// Bold wraps s in strong emphasis.
func Bold(s string) string { return "**" + s + "**" }

// InlineCode wraps s in backticks.
func InlineCode(s string) string { return "`" + s + "`" }

// Link formats a markdown link.
func Link(text, target string) string { return "[" + text + "](" + target + ")" }
