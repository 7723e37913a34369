// Qtask is the Quantum Task Explorer.
//
// The default command opens the terminal dashboard. The same task operations
// and views are served over HTTP by `qtask serve` and over MCP stdio by
// `qtask mcp`.
//
// Usage:
//
//	# Open the dashboard
//	qtask
//
//	# Serve the HTTP API on another port
//	QTASK_SERVER_HTTP_PORT=9292 qtask serve
//
//	# Use a TOML config file
//	qtask --config ~/.config/qtask/config.toml serve
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configPath string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "qtask",
		Short: "Quantum Task Explorer",
		Long: `qtask manages a session-local list of tasks, each carrying a random
"quantum state", and renders them as a card grid, a 3D scatter and analytics.

Without a subcommand it opens the terminal dashboard.`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/qtask/config.yaml)")

	root.AddCommand(newDashboardCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMCPCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "qtask by Fyrsmith Labs\n")
	fmt.Fprintf(w, "Version:    %s\n", version)
	fmt.Fprintf(w, "Commit:     %s\n", gitCommit)
	fmt.Fprintf(w, "Build Date: %s\n", buildDate)
}
