package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/cli/output"
	intconfig "github.com/leapstack-labs/leaplint/internal/config"
	"github.com/leapstack-labs/leaplint/pkg/lint"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
// format, when non-empty, overrides the configured output mode for this command.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if format == "" {
		format = cfg.OutputFormat
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	if cfg.DocsBaseURL != "" {
		lint.SetDocsBaseURL(cfg.DocsBaseURL)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}, nil
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to defaults
// and the LEAPLINT_OUTPUT environment variable. Commands built in tests without a
// root command take the fallback path.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &config.Config{
		OutputFormat: getEnvOrDefault(config.EnvPrefix+"OUTPUT", intconfig.DefaultOutput),
		Workers:      intconfig.DefaultWorkers,
		Include:      append([]string(nil), intconfig.DefaultInclude...),
		ProjectRoot:  cwd,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// formatCompletion registers shell completion for a command-local --format flag.
func formatCompletion(cmd *cobra.Command, formats ...string) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return formats, cobra.ShellCompDirectiveNoFileComp
	})
}

// errIssuesFound is returned when a check reports diagnostics, so the process
// exits non-zero.
type errIssuesFound struct {
	count int
}

func (e errIssuesFound) Error() string {
	return fmt.Sprintf("%d lint issues found", e.count)
}
