package commands

import (
	"os"

	"github.com/leapstack-labs/leaplint/internal/cli/config"
	"github.com/leapstack-labs/leaplint/internal/lsp"
	"github.com/leapstack-labs/leaplint/pkg/lint/rules"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC and publishes
diagnostics for open Python documents. The project root, and with it
leaplint.yaml, is taken from the client's initialization request (rootUri
parameter). Saving leaplint.yaml reloads the rule configuration.`,
		Example: `  # Start LSP server (usually called by an editor)
  leaplint lsp

  # Include preview rules
  leaplint lsp --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd, version)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command, version string) error {
	cfg := getConfig()
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.Options{
		Preview:  cfg.Preview,
		Registry: rules.Registry(),
		Rules:    rules.All(),
		Version:  version,
		Logger:   config.GetLogger(cmd.Context()),
	})
	return server.Run(cmd.Context())
}
