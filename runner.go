package reel

import (
	"encoding/json"
	"fmt"
)

// playStep represents a single action in a playback script.
type playStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Frame  int    `json:"frame,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// playScript is the top-level JSON structure for a playback script.
type playScript struct {
	Steps []playStep `json:"steps"`
}

// Capture is the state recorded by a "capture" step.
type Capture struct {
	Label string      `json:"label"`
	Frame int         `json:"frame"`
	Scene string      `json:"scene"`
	Nodes []NodeState `json:"nodes"`
}

// Runner sequences playback actions (stepping, seeking, reloading and
// capturing) against an Engine, one action per Step call. It is how editor
// sessions are replayed in tests and from the command line.
type Runner struct {
	steps    []playStep
	cursor   int
	captures []Capture
	done     bool
}

// LoadPlayScript parses a JSON playback script:
//
//	{"steps": [
//	  {"action": "next", "frames": 30},
//	  {"action": "capture", "label": "a"},
//	  {"action": "seek", "frame": 5},
//	  {"action": "reload"}
//	]}
func LoadPlayScript(jsonData []byte) (*Runner, error) {
	var script playScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse play script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse play script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "next", "seek", "reload", "capture":
		default:
			return nil, fmt.Errorf("parse play script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Runner{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *Runner) Done() bool {
	return r.done
}

// Captures returns the states recorded so far.
func (r *Runner) Captures() []Capture {
	return r.captures
}

// Step executes the next action against e. Seek and reload failures are
// returned; the runner still moves past the failing step.
func (r *Runner) Step(e *Engine) error {
	if r.done {
		return nil
	}
	st := r.steps[r.cursor]
	r.cursor++
	if r.cursor >= len(r.steps) {
		r.done = true
	}

	switch st.Action {
	case "next":
		n := max(st.Frames, 1)
		for i := 0; i < n; i++ {
			e.Next()
		}
	case "seek":
		return e.JumpToFrame(st.Frame)
	case "reload":
		return e.Reload()
	case "capture":
		f := e.Render()
		r.captures = append(r.captures, Capture{
			Label: st.Label,
			Frame: f.Number,
			Scene: f.Scene,
			Nodes: f.Nodes(),
		})
	}
	return nil
}

// Run executes every remaining step and returns the captures. It stops at
// the first failing step.
func (r *Runner) Run(e *Engine) ([]Capture, error) {
	for !r.done {
		if err := r.Step(e); err != nil {
			return r.captures, err
		}
	}
	return r.captures, nil
}
