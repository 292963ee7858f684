package reel

import (
	"errors"
	"fmt"
)

var (
	// ErrAbandoned is returned by a procedure whose yield reported false. It
	// signals cooperative cancellation and is never reported as a failure.
	ErrAbandoned = errors.New("reel: task abandoned")

	// ErrCycle is reported when a cell is read during its own recomputation.
	ErrCycle = errors.New("reel: cell dependency cycle")

	// ErrNoScenes is reported when a project loads with an empty scene table.
	ErrNoScenes = errors.New("reel: project has no scenes")
)

// Step error sources.
const (
	SourceMain        = "main"
	SourceSubordinate = "subordinate"
	SourceCell        = "cell"
)

// ScriptError reports that a project or scene script failed while loading.
// Scene is empty for the project script. The failing instance is left unloaded.
type ScriptError struct {
	Scene string
	Err   error
}

func (e *ScriptError) Error() string {
	if e.Scene == "" {
		return fmt.Sprintf("project script: %v", e.Err)
	}
	return fmt.Sprintf("scene %q script: %v", e.Scene, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// StepError reports a per-frame failure from a task resume or a cell
// producer. It is not fatal: the scene keeps its last good state.
type StepError struct {
	Scene  string
	Frame  int
	Source string
	Err    error
}

func (e *StepError) Error() string {
	if e.Scene == "" {
		return fmt.Sprintf("%s step: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("scene %q frame %d %s step: %v", e.Scene, e.Frame, e.Source, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
