package main

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli"
	cliconfig "github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/internal/docs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// lintEnvKeys are the nested configuration keys worth listing next to the
// top-level defaults.
var lintEnvKeys = map[string]string{
	"lint.ignore_names":        "Comma-separated name patterns to allow, replacing the defaults",
	"lint.extend_ignore_names": "Comma-separated name patterns to allow in addition to the defaults",
}

// generateCLIDocs writes index.md and one page per visible command. Nested
// commands are written as <parent>-<child>.md.
func generateCLIDocs(outDir string) error {
	log.Printf("Generating CLI docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	root := cli.NewRootCmd()
	index, err := renderCLIIndex(root)
	if err != nil {
		return fmt.Errorf("failed to render index: %w", err)
	}
	pages := map[string][]byte{"index.md": index}
	for _, cmd := range commandTree(root) {
		page, err := renderCommandPage(cmd)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", cmd.CommandPath(), err)
		}
		pages[pageName(cmd)+".md"] = page
	}

	for _, name := range slices.Sorted(maps.Keys(pages)) {
		if err := os.WriteFile(filepath.Join(outDir, name), pages[name], 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		log.Printf("  Generated %s", name)
	}
	return nil
}

// visibleCommands returns the documented children of cmd.
func visibleCommands(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, sub := range cmd.Commands() {
		if sub.Hidden || !sub.IsAvailableCommand() || sub.Name() == "help" {
			continue
		}
		out = append(out, sub)
	}
	return out
}

// commandTree lists every documented command below root, parents first.
func commandTree(root *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, cmd := range visibleCommands(root) {
		out = append(out, cmd)
		out = append(out, commandTree(cmd)...)
	}
	return out
}

// pageName is the command path without the binary name, joined by dashes.
func pageName(cmd *cobra.Command) string {
	path := strings.Fields(cmd.CommandPath())
	return strings.Join(path[1:], "-")
}

func renderCLIIndex(root *cobra.Command) ([]byte, error) {
	w := docs.NewMarkdownWriter()
	w.Frontmatter(docs.Frontmatter{Title: "CLI Reference", Description: "Command-line interface reference for leaplint"})
	w.GeneratedMarker()

	w.Header(1, "CLI Reference")
	w.Paragraph("leaplint checks Python test suites for naming problems and explains the rules it enforces.")

	w.Header(2, "Installation")
	w.CodeBlock("bash", "go install github.com/leapstack-labs/leaplint/cmd/leaplint@latest")

	w.Header(2, "Commands")
	var rows [][]string
	for _, cmd := range commandTree(root) {
		name := strings.TrimPrefix(cmd.CommandPath(), root.Name()+" ")
		rows = append(rows, []string{
			docs.Link(docs.InlineCode(name), "/cli/"+pageName(cmd)),
			oneLine(cmd.Short),
		})
	}
	w.Table([]string{"Command", "Description"}, rows)

	w.Header(2, "Global Options")
	w.Table(flagHeaders, flagRows(root.PersistentFlags()))

	w.Header(2, "Environment Variables")
	w.Paragraph("Every configuration key can be set through a " + docs.InlineCode(cliconfig.EnvPrefix) +
		" variable. A double underscore descends into a section.")
	w.Table([]string{"Variable", "Key", "Description"}, envRows(root.PersistentFlags()))
	w.Paragraph(docs.InlineCode("NO_COLOR") + " disables colored output. Flags take precedence over environment variables, which take precedence over " +
		docs.InlineCode(config.ConfigFileName) + ".")

	w.Header(2, "Exit Codes")
	w.Table([]string{"Code", "Meaning"}, [][]string{
		{docs.InlineCode("0"), "No diagnostics at or above the severity threshold"},
		{docs.InlineCode("1"), "Diagnostics found, or an error (check stderr for details)"},
	})

	return w.Bytes()
}

func renderCommandPage(cmd *cobra.Command) ([]byte, error) {
	w := docs.NewMarkdownWriter()
	w.Frontmatter(docs.Frontmatter{Title: cmd.CommandPath(), Description: oneLine(cmd.Short)})
	w.GeneratedMarker()

	w.Header(1, cmd.CommandPath())
	w.Paragraph(firstNonBlank(cmd.Long, cmd.Short))

	w.Header(2, "Usage")
	usage := cmd.UseLine()
	if cmd.HasAvailableSubCommands() {
		usage = cmd.CommandPath() + " <subcommand> [options]"
	}
	w.CodeBlock("bash", usage)

	if len(cmd.Aliases) > 0 {
		w.Header(2, "Aliases")
		var aliases []string
		for _, alias := range cmd.Aliases {
			aliases = append(aliases, docs.InlineCode(alias))
		}
		w.BulletList(aliases)
	}

	if subs := visibleCommands(cmd); len(subs) > 0 {
		w.Header(2, "Subcommands")
		var rows [][]string
		for _, sub := range subs {
			rows = append(rows, []string{docs.Link(docs.InlineCode(sub.Name()), "/cli/"+pageName(sub)), oneLine(sub.Short)})
		}
		w.Table([]string{"Subcommand", "Description"}, rows)
	}

	if rows := flagRows(cmd.LocalNonPersistentFlags()); len(rows) > 0 {
		w.Header(2, "Options")
		w.Table(flagHeaders, rows)
	}
	if rows := flagRows(cmd.InheritedFlags()); len(rows) > 0 {
		w.Header(2, "Global Options")
		w.Paragraph("See the " + docs.Link("CLI reference", "/cli/") + ".")
		w.Table(flagHeaders, rows)
	}

	if cmd.Example != "" {
		w.Header(2, "Examples")
		w.CodeBlock("bash", dedent(cmd.Example))
	}

	return w.Bytes()
}

var flagHeaders = []string{"Option", "Short", "Default", "Description"}

// flagRows lists the visible flags of fs in name order.
func flagRows(fs *pflag.FlagSet) [][]string {
	var rows [][]string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		short := ""
		if f.Shorthand != "" {
			short = docs.InlineCode("-" + f.Shorthand)
		}
		rows = append(rows, []string{docs.InlineCode("--" + f.Name), short, flagDefault(f), oneLine(f.Usage)})
	})
	return rows
}

// flagDefault formats a flag default. Booleans and empty values print as-is.
func flagDefault(f *pflag.Flag) string {
	switch v := f.DefValue; {
	case v == "", v == "[]":
		return ""
	case f.Value.Type() == "bool":
		return v
	default:
		return docs.InlineCode(v)
	}
}

// envRows derives the environment table from the configuration defaults. A
// root flag of the same name supplies the description.
func envRows(flags *pflag.FlagSet) [][]string {
	descriptions := maps.Clone(lintEnvKeys)
	for key := range config.Defaults() {
		if f := flags.Lookup(key); f != nil {
			descriptions[key] = oneLine(f.Usage)
		} else {
			descriptions[key] = "Configuration key " + docs.InlineCode(key)
		}
	}

	var rows [][]string
	for _, key := range slices.Sorted(maps.Keys(descriptions)) {
		rows = append(rows, []string{docs.InlineCode(envName(key)), docs.InlineCode(key), descriptions[key]})
	}
	return rows
}

// envName maps lint.extend_ignore_names to LEAPLINT_LINT__EXTEND_IGNORE_NAMES.
func envName(key string) string {
	return cliconfig.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}

// dedent strips the indentation shared by all non-blank lines.
func dedent(text string) string {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		switch {
		case first:
			prefix, first = indent, false
		case !strings.HasPrefix(indent, prefix):
			prefix = commonPrefix(prefix, indent)
		}
	}
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// oneLine collapses a cobra description to a single table-safe line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonBlank(preferred, fallback string) string {
	if strings.TrimSpace(preferred) != "" {
		return preferred
	}
	return fallback
}
