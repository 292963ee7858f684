package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/phanxgames/reel"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const defaultDebounce = 200 * time.Millisecond

func newWatchCommand() *cobra.Command {
	var (
		frame      int
		jsonOutput bool
		debounce   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the project whenever the timeline file changes",
		Long: `Watch the timeline file. On every change the file is re-parsed, the scene
table and markers are replaced, the project is reloaded at the current frame
and the new state is printed. Invalid files are reported and skipped.`,
		Example: `  reel watch --timeline timeline.yaml --frame 90`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if timelinePath == "" {
				return errors.New("watch requires --timeline")
			}
			e, err := newEngine(timelinePath)
			if err != nil {
				return err
			}
			if err := e.JumpToFrame(frame); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := printSnapshot(out, takeSnapshot(e), jsonOutput); err != nil {
				return err
			}

			return watchFile(cmd.Context(), timelinePath, debounce, func() {
				reloadAndPrint(e, timelinePath, out, jsonOutput)
			})
		},
	}

	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "frame to hold while watching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before reloading")

	return cmd
}

// reloadAndPrint applies the changed timeline and prints the new state.
// Failures are logged and watching continues.
func reloadAndPrint(e *reel.Engine, path string, w io.Writer, asJSON bool) {
	if err := applyTimeline(e, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("timeline rejected")
		return
	}
	if err := printSnapshot(w, takeSnapshot(e), asJSON); err != nil {
		log.Error().Err(err).Msg("print snapshot failed")
	}
}

// applyTimeline re-reads path into e and reloads it in place.
func applyTimeline(e *reel.Engine, path string) error {
	tl, err := reel.LoadTimeline(path)
	if err != nil {
		return err
	}
	e.SetScenes(tl.Scenes)
	e.SetMarkers(tl.Markers)
	if err := e.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	log.Info().Str("path", path).Int("frame", e.Frame()).Int("length", e.Length()).Msg("timeline reloaded")
	return nil
}

// watchFile calls onChange once per burst of writes to path, after the file
// has been quiet for debounce. The parent directory is watched so editors
// that save by renaming are still seen. It returns when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	log.Info().Str("path", target).Msg("watching timeline")

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("op", event.Op.String()).Msg("timeline changed")
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			onChange()
		}
	}
}
