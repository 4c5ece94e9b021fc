// Package cli implements the klesync command-line interface.
//
// klesync keeps hand-authored KLE layout diagrams in sync with a Glove80
// keymap: given the reference keymap the diagrams were drawn for and an
// edited working copy, the sync command relocates key legends and styles to
// follow the bindings while leaving all geometry untouched.
//
// # Commands
//
//   - sync: reconcile a directory of reference diagrams against a new keymap
//   - version: print build information
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so every command sees the same logger.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/inonprince/zmk-glorious-lefty/pkg/buildinfo"
)

// Execute runs the klesync CLI and returns an error if any command fails.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the klesync CLI with the given context, which the
// caller typically wires to SIGINT/SIGTERM.
func ExecuteContext(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   "klesync",
		Short: "klesync updates KLE layout diagrams to track keymap changes",
		Long: `klesync diffs two ZMK keymaps (the reference the diagrams were drawn for,
and your edited working copy) and rewrites the KLE layout diagrams so each
key's legend and style follow its binding. Geometry never changes; only
content moves.`,
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

	root.AddCommand(newSyncCmd())
	root.AddCommand(newVersionCmd())

	return root.ExecuteContext(ctx)
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(buildinfo.String())
		},
	}
}
