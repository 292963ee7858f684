// Package commands implements the reel command line: inspecting, exporting,
// watching and replaying the built-in demo project.
package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	timelinePath string
	verbose      bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reel",
		Short: "reel - frame-accurate scripted animation engine",
		Long: `reel drives scripted animations as a deterministic, seekable,
frame-indexed state machine.

The commands run the built-in demo project against an optional timeline file
(YAML) that sets the scene table and the markers:

  scenes:
    - name: intro
      length: 150
  markers:
    - name: beat
      frame: 90`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&timelinePath, "timeline", "t", "", "timeline file (YAML); defaults to the demo timeline")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRunCommand())

	return rootCmd
}
