package commands

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/leaplint/internal/docs"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
	"github.com/spf13/cobra"
)

// NewDocsCommand creates the docs command.
func NewDocsCommand() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate rule reference documentation",
		Long: `Generate markdown reference pages for every lint rule.

Writes index.md with an overview of all rules and one page per rule group
with the full documentation, lifecycle status and default level of each rule.`,
		Example: `  # Generate into ./docs/rules
  leaplint docs

  # Generate into a custom directory
  leaplint docs --outdir site/content/rules`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd, "")
			if err != nil {
				return err
			}
			dir := outDir
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cmdCtx.Cfg.ProjectRoot, dir)
			}

			written, err := docs.Generate(rules.Registry(), dir, cmdCtx.Logger)
			if err != nil {
				return err
			}
			cmdCtx.Renderer.Success(fmt.Sprintf("Generated %d pages in %s", len(written), dir))
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", filepath.Join("docs", "rules"), "Output directory, relative to the project root")

	return cmd
}
