package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/checker"
	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/leapstack-labs/leaplint/pkg/core"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Format   string // Output format: auto, text, markdown, json
	Severity string // Minimum severity: error, warning
	Watch    bool   // Re-run on file changes
	ExitZero bool   // Exit 0 even when issues are found
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check Python files for naming problems",
		Long: `Analyze Python files and report rule violations.

Paths may be files or directories; directories are searched for files
matching the include patterns (default **/*.py), skipping virtualenvs,
caches and hidden directories. Rules are configured in leaplint.yaml.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check the current directory
  leaplint check

  # Check specific paths
  leaplint check tests/ src/app/test_models.py

  # Output as JSON
  leaplint check --format json

  # Only report errors
  leaplint check --severity error

  # Include preview rules and re-run on every change
  leaplint check --preview --watch`,
		// Found issues are reported through the exit status, not as a usage error.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: auto, text, markdown, json")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity to report: error, warning")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run when Python files or the config change")
	cmd.Flags().BoolVar(&opts.ExitZero, "exit-zero", false, "Exit with status 0 even when issues are found")
	formatCompletion(cmd, "auto", "text", "markdown", "json")

	return cmd
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid --severity %q (must be error or warning)", opts.Severity)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}

	store, err := openCache(cmdCtx)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	if !opts.Watch {
		issues, err := checkOnce(cmd.Context(), cmdCtx, paths, threshold, store)
		if err != nil {
			return err
		}
		if issues > 0 && !opts.ExitZero {
			return errIssuesFound{count: issues}
		}
		return nil
	}
	return watchCheck(cmd.Context(), cmdCtx, paths, threshold, store)
}

// openCache opens the project result cache when caching is enabled.
func openCache(cmdCtx *CommandContext) (*cache.Store, error) {
	if !cmdCtx.Cfg.Cache {
		return nil, nil
	}
	path := cache.DefaultPath(cmdCtx.Cfg.ProjectRoot)
	store, err := cache.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	cmdCtx.Logger.Debug("using cache", "path", path)
	return store, nil
}

// checkOnce runs one pass and renders it. It returns the number of reported issues.
func checkOnce(ctx context.Context, cmdCtx *CommandContext, paths []string, threshold core.Severity, store *cache.Store) (int, error) {
	cfg := cmdCtx.Cfg
	report, err := checker.Run(ctx, checker.Options{
		Paths:    paths,
		Include:  cfg.Include,
		Exclude:  cfg.Exclude,
		Lint:     cfg.Lint,
		Preview:  cfg.Preview,
		Workers:  cfg.Workers,
		Registry: rules.Registry(),
		Rules:    rules.All(),
		Logger:   cmdCtx.Logger,
		Cache:    store,
	})
	if err != nil {
		return 0, err
	}

	results := filterBySeverity(report.Results, threshold)
	renderCheckResults(cmdCtx.Renderer, report, results)
	return countDiagnostics(results), nil
}

func watchCheck(parent context.Context, cmdCtx *CommandContext, paths []string, threshold core.Severity, store *cache.Store) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	r := cmdCtx.Renderer
	rerun := func() {
		if _, err := checkOnce(ctx, cmdCtx, paths, threshold, store); err != nil && ctx.Err() == nil {
			r.Error(err.Error())
		}
	}
	rerun()

	w := &checker.Watcher{
		Roots:      paths,
		ConfigFile: config.GetConfigFileUsed(),
		Logger:     cmdCtx.Logger,
	}
	r.Println(r.Styles().Muted.Render("Watching for changes. Press Ctrl+C to stop."))
	return w.Run(ctx, func(ctx context.Context, change checker.Change) error {
		if change.Config {
			next, err := config.ReloadProject(cmdCtx.Cfg)
			if err != nil {
				return fmt.Errorf("config not reloaded: %w", err)
			}
			cmdCtx.Cfg = next
			cmdCtx.Logger.Info("configuration reloaded")
		}
		rerun()
		return nil
	})
}

func filterBySeverity(results []lint.FileResult, threshold core.Severity) []lint.FileResult {
	var filtered []lint.FileResult
	for _, res := range results {
		var diags []lint.Diagnostic
		for _, d := range res.Diagnostics {
			if d.Severity <= threshold {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 {
			filtered = append(filtered, lint.FileResult{Path: res.Path, Diagnostics: diags})
		}
	}
	return filtered
}

func countDiagnostics(results []lint.FileResult) int {
	n := 0
	for _, res := range results {
		n += len(res.Diagnostics)
	}
	return n
}

func renderCheckResults(r *output.Renderer, report *checker.Report, all []lint.FileResult) {
	results := withDiagnostics(all)
	summary := output.CheckSummary{
		FilesAnalyzed:   report.Files,
		FilesWithIssues: len(results),
	}
	for _, res := range results {
		summary.TotalIssues += len(res.Diagnostics)
		for _, d := range res.Diagnostics {
			switch d.Severity {
			case core.SeverityError:
				summary.Errors++
			case core.SeverityWarning:
				summary.Warnings++
			}
		}
	}

	for _, err := range report.ParseErrors {
		r.Warning(err.Error())
	}

	if r.EffectiveMode() == output.ModeJSON {
		jsonOutput := output.CheckOutput{
			RunID:   report.RunID,
			Summary: summary,
			Files:   []output.CheckFileResult{},
		}
		for _, adv := range report.Advisories {
			jsonOutput.Advisories = append(jsonOutput.Advisories, adv.Message)
		}
		for _, res := range results {
			fileResult := output.CheckFileResult{Path: res.Path}
			for _, d := range res.Diagnostics {
				fileResult.Diagnostics = append(fileResult.Diagnostics, output.CheckDiagnostic{
					Rule:     string(d.Rule),
					Severity: d.Severity.String(),
					Message:  d.Message,
					Line:     d.Span.Start.Line,
					Column:   d.Span.Start.Column,
					EndLine:  d.Span.End.Line,
					EndCol:   d.Span.End.Column,
					URL:      d.DocumentationURL,
				})
			}
			jsonOutput.Files = append(jsonOutput.Files, fileResult)
		}
		_ = r.JSON(jsonOutput)
		return
	}

	for _, adv := range report.Advisories {
		r.Warning(adv.Message)
	}

	if summary.TotalIssues == 0 {
		r.Success(fmt.Sprintf("No lint issues found in %d files", summary.FilesAnalyzed))
		return
	}

	styles := r.Styles()
	for _, res := range results {
		r.Println(styles.Path.Render(res.Path))
		for _, d := range res.Diagnostics {
			r.Printf("  %s  %s  %s  %s\n",
				styles.Muted.Render(fmt.Sprintf("%-7s", d.Pos())),
				severityLabel(r, d.Severity),
				styles.Bold.Render(string(d.Rule)),
				d.Message,
			)
		}
		r.Println("")
	}

	r.Printf("Summary: %d issues (%d errors, %d warnings) in %d of %d files\n",
		summary.TotalIssues, summary.Errors, summary.Warnings,
		summary.FilesWithIssues, summary.FilesAnalyzed)
}

// withDiagnostics drops clean files.
func withDiagnostics(results []lint.FileResult) []lint.FileResult {
	var out []lint.FileResult
	for _, res := range results {
		if len(res.Diagnostics) > 0 {
			out = append(out, res)
		}
	}
	return out
}

func severityLabel(r *output.Renderer, sev core.Severity) string {
	switch sev {
	case core.SeverityError:
		return r.Styles().Error.Render("error  ")
	case core.SeverityWarning:
		return r.Styles().Warning.Render("warning")
	default:
		return r.Styles().Muted.Render("unknown")
	}
}
