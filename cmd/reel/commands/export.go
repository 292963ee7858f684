package commands

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newExportCommand() *cobra.Command {
	var from, to int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one JSON line per frame",
		Long: `Step the project frame by frame and write each frame's state as a JSON
line. The range is inclusive; --to defaults to the project length.`,
		Example: `  # Whole project
  reel export > frames.jsonl

  # Frames 100 to 160 of a custom timeline
  reel export --timeline timeline.yaml --from 100 --to 160`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := newEngine(timelinePath)
			if err != nil {
				return err
			}
			if to < 0 {
				to = e.Length()
			}
			if from < 0 || from > to {
				return fmt.Errorf("invalid range %d..%d", from, to)
			}
			if err := e.JumpToFrame(from); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			written := 0
			for {
				if err := ctx.Err(); err != nil {
					log.Warn().Int("frame", e.Frame()).Int("written", written).Msg("export interrupted")
					return err
				}
				if err := enc.Encode(takeSnapshot(e)); err != nil {
					return fmt.Errorf("write frame %d: %w", e.Frame(), err)
				}
				written++
				if e.Frame() >= to {
					break
				}
				e.Next()
			}
			log.Info().Int("from", from).Int("to", to).Int("frames", written).Msg("export complete")
			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "first frame")
	cmd.Flags().IntVar(&to, "to", -1, "last frame (default: project length)")

	return cmd
}
