package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var (
		frame      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the logical state at a frame",
		Long: `Load the project, seek to a frame and print every node in paint order.

Seeking replays from the nearest scene boundary, so the output equals what
uninterrupted playback shows at that frame.`,
		Example: `  # State at frame 0 with the demo timeline
  reel inspect

  # Frame 120 of a custom timeline as JSON
  reel inspect --timeline timeline.yaml --frame 120 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEngine(timelinePath)
			if err != nil {
				return err
			}
			if err := e.JumpToFrame(frame); err != nil {
				return err
			}
			log.Debug().Int("frame", e.Frame()).Str("scene", e.CurrentScene().Name()).Msg("inspect")
			return printSnapshot(cmd.OutOrStdout(), takeSnapshot(e), jsonOutput)
		},
	}

	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "frame to inspect")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	return cmd
}
