package reel

import (
	"errors"
	"reflect"
	"testing"
)

var errFailingProject = errors.New("project failed")

func TestLoadPlayScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "capture", "label": "initial"},
			{"action": "next", "frames": 3},
			{"action": "seek", "frame": 1},
			{"action": "reload"}
		]
	}`)

	runner, err := LoadPlayScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "capture" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "next" || runner.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "seek" || runner.steps[2].Frame != 1 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadPlayScript_Invalid(t *testing.T) {
	_, err := LoadPlayScript([]byte(`not json`))
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadPlayScript_Empty(t *testing.T) {
	_, err := LoadPlayScript([]byte(`{"steps": []}`))
	if err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadPlayScript_UnknownAction(t *testing.T) {
	_, err := LoadPlayScript([]byte(`{"steps": [{"action": "click"}]}`))
	if err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestRunnerStep_Next(t *testing.T) {
	e := newBusyEngine()
	e.Load()
	runner, err := LoadPlayScript([]byte(`{"steps": [{"action": "next", "frames": 4}, {"action": "next"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	runner.Step(e)
	if e.Frame() != 4 {
		t.Errorf("Frame = %d, want 4", e.Frame())
	}
	if runner.Done() {
		t.Error("runner should not be done after the first step")
	}
	runner.Step(e)
	if e.Frame() != 5 || !runner.Done() {
		t.Errorf("Frame = %d, done = %v, want 5 and done", e.Frame(), runner.Done())
	}

	// Step after done is a no-op.
	runner.Step(e)
	if e.Frame() != 5 {
		t.Error("Step after done should not advance")
	}
}

func TestRunnerReplaysSession(t *testing.T) {
	e := newBusyEngine()
	e.Load()
	runner, err := LoadPlayScript([]byte(`{"steps": [
		{"action": "next", "frames": 40},
		{"action": "capture", "label": "played"},
		{"action": "seek", "frame": 3},
		{"action": "seek", "frame": 40},
		{"action": "capture", "label": "seeked"},
		{"action": "reload"},
		{"action": "capture", "label": "reloaded"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	captures, err := runner.Run(e)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(captures) != 3 {
		t.Fatalf("captures = %d, want 3", len(captures))
	}
	if captures[0].Frame != 40 || captures[0].Scene != "s1" {
		t.Errorf("played capture at frame %d scene %q", captures[0].Frame, captures[0].Scene)
	}
	if !reflect.DeepEqual(captures[0].Nodes, captures[1].Nodes) {
		t.Error("seeked capture differs from played capture")
	}
	if !reflect.DeepEqual(captures[0].Nodes, captures[2].Nodes) {
		t.Error("reloaded capture differs from played capture")
	}
	if captures[1].Label != "seeked" {
		t.Errorf("label = %q, want seeked", captures[1].Label)
	}
}

func TestRunnerStopsOnError(t *testing.T) {
	fail := false
	table := spans(10)
	e := New(func(p *ProjectContext) error {
		if fail {
			return errFailingProject
		}
		return registerAll(table, emptyScene)(p)
	}, WithScenes(table))
	e.Load()
	fail = true

	runner, _ := LoadPlayScript([]byte(`{"steps": [{"action": "reload"}, {"action": "capture"}]}`))
	captures, err := runner.Run(e)
	if err == nil {
		t.Fatal("expected reload error")
	}
	if len(captures) != 0 || runner.Done() {
		t.Error("runner should stop at the failing step")
	}
}
