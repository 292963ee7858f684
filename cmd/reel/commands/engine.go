package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/phanxgames/reel"
	"github.com/phanxgames/reel/internal/demo"
	"github.com/rs/zerolog/log"
)

// snapshot is the printable form of one frame.
type snapshot struct {
	Frame      int              `json:"frame"`
	Scene      string           `json:"scene"`
	SceneIndex int              `json:"sceneIndex"`
	Transition float64          `json:"transition"`
	Nodes      []reel.NodeState `json:"nodes"`
}

func takeSnapshot(e *reel.Engine) snapshot {
	f := e.Render()
	return snapshot{
		Frame:      f.Number,
		Scene:      f.Scene,
		SceneIndex: f.SceneIndex,
		Transition: f.Transition,
		Nodes:      f.Nodes(),
	}
}

// loadTimeline returns the timeline at path, or the demo timeline when path
// is empty.
func loadTimeline(path string) (*reel.Timeline, error) {
	if path == "" {
		return demo.Timeline(), nil
	}
	return reel.LoadTimeline(path)
}

// newEngine loads the demo project with the timeline at path. Script and
// step errors are logged by the engine.
func newEngine(path string) (*reel.Engine, error) {
	tl, err := loadTimeline(path)
	if err != nil {
		return nil, err
	}
	e := demo.New(tl, reel.WithLogger(log.Logger))
	if err := e.Load(); err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return e, nil
}

func printSnapshot(w io.Writer, s snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	if _, err := fmt.Fprintf(w, "frame %d  scene %s (#%d)  transition %.2f\n", s.Frame, s.Scene, s.SceneIndex, s.Transition); err != nil {
		return err
	}
	for _, n := range s.Nodes {
		fmt.Fprintf(w, "  %-16s z=%d x=%7.2f y=%7.2f sx=%.2f sy=%.2f rot=%.2f a=%.2f\n",
			n.Name, n.ZIndex, n.X, n.Y, n.ScaleX, n.ScaleY, n.Rotation, n.Alpha)
	}
	return nil
}
