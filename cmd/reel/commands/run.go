package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/phanxgames/reel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var scriptPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a playback script and print its captures",
		Long: `Run a JSON playback script (next, seek, reload and capture steps) against the
project and print every capture as a JSON line.`,
		Example: `  reel run --script session.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(scriptPath)
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			runner, err := reel.LoadPlayScript(data)
			if err != nil {
				return err
			}
			e, err := newEngine(timelinePath)
			if err != nil {
				return err
			}

			captures, err := runner.Run(e)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, c := range captures {
				if err := enc.Encode(c); err != nil {
					return err
				}
			}
			log.Info().Int("captures", len(captures)).Int("frame", e.Frame()).Msg("script complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "playback script (JSON)")
	cmd.MarkFlagRequired("script")

	return cmd
}
