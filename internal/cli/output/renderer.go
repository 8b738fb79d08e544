// Package output renders command results for terminals, pipes and machines.
//
// A Renderer is created once per command. In ModeAuto it renders styled text
// on a terminal and plain markdown everywhere else, so that piping leaplint
// into a file or another tool produces readable, colour-free output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects how a Renderer formats output.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode validates a mode name. The empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeText, ModeMarkdown, ModeJSON:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q (must be auto, text, markdown or json)", s)
	}
}

// Renderer writes formatted output to a pair of writers.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with explicit terminal detection. Used by tests.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, mode: mode, isTTY: isTTY}
	r.styles = newStyles(r.lipglossRenderer())
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// lipglossRenderer forces the ASCII profile whenever colour would end up in a
// file, a pipe or a terminal that asked for NO_COLOR.
func (r *Renderer) lipglossRenderer() *lipgloss.Renderer {
	lr := lipgloss.NewRenderer(r.out)
	if !r.isTTY || os.Getenv("NO_COLOR") != "" || r.EffectiveMode() != ModeText {
		lr.SetColorProfile(termenv.Ascii)
	}
	return lr
}

// Mode returns the configured mode, which may be ModeAuto.
func (r *Renderer) Mode() Mode { return r.mode }

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the primary writer is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Writer returns the primary writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the writer for diagnostics about the run itself.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Styles returns the style set bound to this renderer's colour profile.
func (r *Renderer) Styles() *Styles { return r.styles }

// Println writes a line to the primary writer.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted text to the primary writer.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Header writes a section heading.
func (r *Renderer) Header(title string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Printf("# %s\n\n", title)
		return
	}
	r.Println(r.styles.Header1.Render(title))
	r.Println("")
}

// Success writes a success message to the primary writer.
func (r *Renderer) Success(msg string) {
	r.status(r.out, r.styles.Success, "✓", msg)
}

// Warning writes a warning message to the error writer.
func (r *Renderer) Warning(msg string) {
	r.status(r.errOut, r.styles.Warning, "!", msg)
}

// Error writes an error message to the error writer.
func (r *Renderer) Error(msg string) {
	r.status(r.errOut, r.styles.Error, "✗", msg)
}

func (r *Renderer) status(w io.Writer, style lipgloss.Style, icon, msg string) {
	if r.EffectiveMode() != ModeText {
		_, _ = fmt.Fprintln(w, msg)
		return
	}
	_, _ = fmt.Fprintln(w, style.Render(icon)+" "+msg)
}

// JSON writes v as indented JSON to the primary writer.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header, as a box table in text mode and a pipe
// table in markdown mode.
func (r *Renderer) Table(header []string, rows [][]string) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)

	hdr := make(table.Row, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	tw.AppendHeader(hdr)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		tw.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		tw.RenderMarkdown()
		r.Println("")
		return
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}

var titleCaser = cases.Title(language.English)

// Title converts a group or stage name such as "naming" to "Naming".
func Title(s string) string {
	return titleCaser.String(s)
}
