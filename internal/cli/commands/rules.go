package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// RulesOptions holds options for the rules command.
type RulesOptions struct {
	Group   string // Filter by group
	Status  string // Filter by lifecycle stage
	Verbose bool   // Show full documentation
	Format  string // Output format
}

// NewRulesCommand creates the rules command.
func NewRulesCommand() *cobra.Command {
	opts := &RulesOptions{}
	cmd := &cobra.Command{
		Use:   "rules [rule-name]",
		Short: "List available lint rules",
		Long: `List all available lint rules with their documentation.

Rules are organized by group (e.g., naming) and carry a lifecycle status:
preview, stable, deprecated or removed. Use --verbose to see the full
documentation of every rule, or pass a rule name to show one rule.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # List all rules
  leaplint rules

  # Show details for a specific rule
  leaplint rules invalid-test-name

  # List preview rules only
  leaplint rules --status preview

  # Show full documentation
  leaplint rules -V

  # Output as YAML
  leaplint rules --format yaml`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var names []string
			for _, m := range rules.Registry().Lints() {
				names = append(names, string(m.Name()))
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return showRule(cmd, args[0], opts)
			}
			return listRules(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Group, "group", "g", "", "Filter by group")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status: preview, stable, deprecated, removed")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "V", false, "Show full documentation")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	formatCompletion(cmd, "text", "markdown", "json", "yaml")
	_ = cmd.RegisterFlagCompletionFunc("status", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"preview", "stable", "deprecated", "removed"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// rulesContext resolves the renderer, treating yaml as a format the command
// writes itself.
func rulesContext(cmd *cobra.Command, format string) (*CommandContext, bool, error) {
	if format == "yaml" {
		cmdCtx, err := NewCommandContext(cmd, "")
		return cmdCtx, true, err
	}
	cmdCtx, err := NewCommandContext(cmd, format)
	return cmdCtx, false, err
}

func listRules(cmd *cobra.Command, opts *RulesOptions) error {
	cmdCtx, asYAML, err := rulesContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	reg := rules.Registry()

	infos, err := filterRules(reg.Info(), opts)
	if err != nil {
		return err
	}
	if !opts.Verbose {
		for i := range infos {
			infos[i].Documentation = ""
		}
	}

	if asYAML {
		return writeYAML(cmd, infos)
	}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(RulesJSONOutput{Rules: infos, Count: len(infos)})
	case output.ModeMarkdown:
		return listRulesMarkdown(r, reg, infos, opts.Verbose)
	default:
		return listRulesText(r, reg, infos, opts.Verbose)
	}
}

func filterRules(infos []core.RuleInfo, opts *RulesOptions) ([]core.RuleInfo, error) {
	if opts.Status != "" {
		if _, ok := core.ParseStage(opts.Status); !ok {
			return nil, fmt.Errorf("invalid --status %q (must be preview, stable, deprecated or removed)", opts.Status)
		}
	}
	if opts.Group == "" && opts.Status == "" {
		return infos, nil
	}

	var filtered []core.RuleInfo
	for _, info := range infos {
		if opts.Group != "" && info.Group != opts.Group {
			continue
		}
		if opts.Status != "" && info.Status != opts.Status {
			continue
		}
		filtered = append(filtered, info)
	}
	return filtered, nil
}

func showRule(cmd *cobra.Command, name string, opts *RulesOptions) error {
	cmdCtx, asYAML, err := rulesContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer
	reg := rules.Registry()

	// Removed rules stay visible here so users can find out why.
	m, ok := reg.Lookup(name)
	if !ok {
		return &lint.GetLintError{Kind: lint.GetLintUnknown, Name: name}
	}
	info := m.Info()
	for _, alias := range reg.Aliases(m.Name()) {
		info.Aliases = append(info.Aliases, string(alias))
	}

	if asYAML {
		return writeYAML(cmd, info)
	}
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		return showRuleMarkdown(r, m, info)
	default:
		return showRuleText(r, m, info)
	}
}

// RulesJSONOutput is the JSON output structure for rules listing.
type RulesJSONOutput struct {
	Rules []core.RuleInfo `json:"rules"`
	Count int             `json:"count"`
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func ruleRows(infos []core.RuleInfo) [][]string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, info.DefaultLevel, info.Status, info.Summary})
	}
	return rows
}

var ruleHeader = []string{"Rule", "Default", "Status", "Summary"}

// groupInfos splits infos by group, keeping registry group order.
func groupInfos(reg *lint.Registry, infos []core.RuleInfo) ([]string, map[string][]core.RuleInfo) {
	byGroup := make(map[string][]core.RuleInfo)
	for _, info := range infos {
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}
	var groups []string
	for _, g := range reg.Groups() {
		if len(byGroup[g]) > 0 {
			groups = append(groups, g)
		}
	}
	return groups, byGroup
}

// listRulesText outputs rules in styled text format.
func listRulesText(r *output.Renderer, reg *lint.Registry, infos []core.RuleInfo, verbose bool) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(fmt.Sprintf("Lint Rules (%d)", len(infos))))
	r.Println("")

	groups, byGroup := groupInfos(reg, infos)
	for _, group := range groups {
		r.Println(styles.Header2.Render(output.Title(group)))
		r.Table(ruleHeader, ruleRows(byGroup[group]))
		r.Println("")

		if verbose {
			for _, info := range byGroup[group] {
				r.Println(styles.Bold.Render(info.Name))
				for line := range strings.Lines(info.Documentation) {
					r.Println("    " + strings.TrimSuffix(line, "\n"))
				}
				r.Println("")
			}
		}
	}

	r.Println(styles.Muted.Render("Use 'leaplint rules <rule-name>' for detailed documentation"))
	r.Println("")
	return nil
}

// listRulesMarkdown outputs rules in markdown format.
func listRulesMarkdown(r *output.Renderer, reg *lint.Registry, infos []core.RuleInfo, verbose bool) error {
	r.Header("Lint Rules")

	groups, byGroup := groupInfos(reg, infos)
	for _, group := range groups {
		r.Println("## " + output.Title(group))
		r.Println("")
		r.Table(ruleHeader, ruleRows(byGroup[group]))

		if verbose {
			for _, info := range byGroup[group] {
				r.Println("### " + info.Name)
				r.Println("")
				r.Println(info.Documentation)
				r.Println("")
			}
		}
	}
	return nil
}

// showRuleText displays detailed rule info in text format.
func showRuleText(r *output.Renderer, m *lint.LintMetadata, info core.RuleInfo) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render(info.Name))
	r.Println("")

	r.Printf("  %s: %s\n", styles.Bold.Render("Summary"), info.Summary)
	r.Printf("  %s: %s\n", styles.Bold.Render("Group"), info.Group)
	r.Printf("  %s: %s\n", styles.Bold.Render("Default level"), info.DefaultLevel)
	r.Printf("  %s: %s since %s\n", styles.Bold.Render("Status"), info.Status, info.Since)
	if info.Reason != "" {
		r.Printf("  %s: %s\n", styles.Bold.Render("Reason"), info.Reason)
	}
	if len(info.Aliases) > 0 {
		r.Printf("  %s: %s\n", styles.Bold.Render("Aliases"), strings.Join(info.Aliases, ", "))
	}
	r.Printf("  %s: %s\n", styles.Bold.Render("Declared at"), styles.Muted.Render(m.Location()))
	r.Printf("  %s: %s\n", styles.Bold.Render("Docs"), lint.BuildDocURL(m.Name()))
	r.Println("")

	inFence := false
	for line := range m.DocumentationLines() {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(line, "#") {
			r.Println(styles.Header2.Render(strings.TrimLeft(line, "# ")))
			continue
		}
		r.Println("  " + line)
	}
	r.Println("")
	return nil
}

// showRuleMarkdown displays detailed rule info in markdown format.
func showRuleMarkdown(r *output.Renderer, m *lint.LintMetadata, info core.RuleInfo) error {
	r.Header(info.Name)
	r.Printf("**Group:** %s | **Default level:** `%s` | **Status:** %s since `%s`\n\n",
		info.Group, info.DefaultLevel, info.Status, info.Since)
	if info.Reason != "" {
		r.Printf("> %s\n\n", info.Reason)
	}
	if len(info.Aliases) > 0 {
		quoted := slices.Clone(info.Aliases)
		for i, a := range quoted {
			quoted[i] = "`" + a + "`"
		}
		r.Printf("**Aliases:** %s\n\n", strings.Join(quoted, ", "))
	}
	r.Println(info.Summary)
	r.Println("")
	r.Println(m.Documentation())
	return nil
}
