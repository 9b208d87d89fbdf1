package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/barline/barline/pkg/buildinfo"
)

// Execute runs the barline CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with the daemon (serve) and client
// subcommands (add, set, remove, query, displays), configures logging based
// on the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var (
		verbose bool
		socket  string
	)

	root := &cobra.Command{
		Use:          "barline",
		Short:        "Barline manages per-display status bar layout state",
		Long:         `Barline is a daemon that owns the layout state of status bar nodes per display, serves it to clients over a local socket, and notifies the presentation layer of every change. The same binary is the client: every other subcommand sends one command to a running daemon.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&socket, "socket", "", "daemon socket path (default: per-user path under the temp directory)")

	root.AddCommand(newServeCmd(&socket))
	root.AddCommand(newAddCmd(&socket))
	root.AddCommand(newSetCmd(&socket))
	root.AddCommand(newRemoveCmd(&socket))
	root.AddCommand(newQueryCmd(&socket))
	root.AddCommand(newDisplaysCmd(&socket))

	return root.ExecuteContext(ctx)
}
