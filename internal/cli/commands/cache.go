package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/leapstack-labs/leaplint/internal/cache"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache",
		Long: `Inspect or clear the result cache.

When caching is enabled (--cache or cache: true in leaplint.yaml), check
stores the diagnostics of every file in .leaplint/cache.db under the project
root and reuses them while the file content and lint settings are unchanged.`,
	}
	cmd.AddCommand(newCacheRunsCommand())
	cmd.AddCommand(newCacheCleanCommand())
	return cmd
}

func newCacheRunsCommand() *cobra.Command {
	var (
		format string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded check runs",
		Example: `  # Show the last 10 runs
  leaplint cache runs

  # Show every run as JSON
  leaplint cache runs --limit 0 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd, format)
			if err != nil {
				return err
			}
			store, ok, err := openExistingCache(cmdCtx)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer
			var runs []cache.Run
			if ok {
				defer func() { _ = store.Close() }()
				if runs, err = store.Runs(cmd.Context(), limit); err != nil {
					return err
				}
			}
			renderRuns(r, runs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: auto, text, markdown, json")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to show (0 for all)")
	formatCompletion(cmd, "auto", "text", "markdown", "json")
	return cmd
}

func newCacheCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete all cached results and run records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd, "")
			if err != nil {
				return err
			}
			store, ok, err := openExistingCache(cmdCtx)
			if err != nil {
				return err
			}
			if !ok {
				cmdCtx.Renderer.Success("Cache is already empty")
				return nil
			}
			defer func() { _ = store.Close() }()

			n, err := store.Entries(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			cmdCtx.Logger.Debug("cache cleared", "path", store.Path(), "entries", n)
			cmdCtx.Renderer.Success(fmt.Sprintf("Removed %d cached files", n))
			return nil
		},
	}
}

// openExistingCache opens the project cache if one has been created. It
// reports false, without creating anything, when there is none.
func openExistingCache(cmdCtx *CommandContext) (*cache.Store, bool, error) {
	path := cache.DefaultPath(cmdCtx.Cfg.ProjectRoot)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	store, err := cache.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open cache: %w", err)
	}
	return store, true, nil
}

func renderRuns(r *output.Renderer, runs []cache.Run) {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]output.CacheRun, 0, len(runs))
		for _, run := range runs {
			out = append(out, output.CacheRun{
				ID:         run.ID,
				StartedAt:  run.StartedAt.Format(time.RFC3339),
				DurationMS: run.Duration.Milliseconds(),
				Files:      run.Files,
				Cached:     run.Cached,
				Errors:     run.Errors,
				Warnings:   run.Warnings,
			})
		}
		_ = r.JSON(out)
		return
	}

	if len(runs) == 0 {
		r.Println("No runs recorded")
		return
	}
	r.Header(fmt.Sprintf("Recent Runs (%d)", len(runs)))
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration.String(),
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Cached),
			strconv.Itoa(run.Errors),
			strconv.Itoa(run.Warnings),
		})
	}
	r.Table([]string{"Run", "Started", "Duration", "Files", "Cached", "Errors", "Warnings"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
