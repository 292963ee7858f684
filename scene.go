package reel

import "fmt"

// SceneState is the load state of a Scene.
type SceneState uint8

const (
	SceneUnloaded SceneState = iota // script not run yet, or scene discarded
	SceneLoaded                     // script ran; Next advances the scene
	SceneErrored                    // script failed; terminal
)

func (s SceneState) String() string {
	switch s {
	case SceneUnloaded:
		return "unloaded"
	case SceneLoaded:
		return "loaded"
	case SceneErrored:
		return "errored"
	default:
		return fmt.Sprintf("SceneState(%d)", s)
	}
}

// SceneScript sets up a scene and returns its main procedure. It runs exactly
// once per Scene, from the top, every time the scene is (re)built.
type SceneScript func(ctx *SceneContext) (Proc, error)

// Host is what a Scene needs from whatever drives it. Engine implements Host.
type Host interface {
	Frame() int
	FrameRate() int
	Marker(name string) (Marker, bool)
	ReportError(err error)
}

// Scene owns one main task (the scene script's procedure) plus a dynamic set
// of subordinate tasks, and advances all of them by exactly one frame per
// Next call.
type Scene struct {
	name   string
	script SceneScript
	host   Host
	state  SceneState

	main         *Task
	subordinates []*Task
	pending      []*Task // registered through SceneContext.Go, first step pending

	elements []Element
	sortBuf  []rankedElement
	nextID   uint32

	progress *Cell[float64]

	frame    int // Next calls since load
	spawned  int // subordinates started during the last step
	lastErr  error
	disposed bool
	debug    bool
}

// NewScene creates an unloaded scene. A nil host runs the scene detached: its
// frame is the number of Next calls since Load, at 60 frames per second, with
// no markers.
func NewScene(name string, script SceneScript, host Host) *Scene {
	s := &Scene{
		name:     name,
		script:   script,
		progress: NewCell(1.0),
	}
	if host == nil {
		host = &detachedHost{scene: s}
	}
	s.host = host
	return s
}

// Name returns the scene's name.
func (s *Scene) Name() string {
	return s.name
}

// State returns the scene's load state.
func (s *Scene) State() SceneState {
	return s.state
}

// Loaded reports whether the scene script has run successfully.
func (s *Scene) Loaded() bool {
	return s.state == SceneLoaded
}

// LastError returns the most recent error the scene reported, if any.
func (s *Scene) LastError() error {
	return s.lastErr
}

// Load runs the scene script once and, on success, performs one step so the
// state of the scene's first frame exists before anything is rendered. A
// failing script leaves the scene errored; the error is reported to the host
// and returned.
func (s *Scene) Load() error {
	if s.state != SceneUnloaded || s.disposed {
		return nil
	}

	ctx := &SceneContext{scene: s}
	main, err := callSceneScript(s.script, ctx)
	if err != nil {
		s.state = SceneErrored
		serr := &ScriptError{Scene: s.name, Err: err}
		s.report(serr)
		return serr
	}

	s.main = NewTask(main)
	s.state = SceneLoaded
	s.step()
	return nil
}

func callSceneScript(script SceneScript, ctx *SceneContext) (p Proc, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if script == nil {
		return nil, nil
	}
	return script(ctx)
}

// Next advances the scene by one frame. It is a no-op unless the scene is
// loaded. Failures inside tasks are reported and never stop the scene.
func (s *Scene) Next() {
	if s.state != SceneLoaded {
		return
	}
	s.frame++
	s.step()
}

// step performs one frame: every registered subordinate is resumed once,
// finished ones are dropped, then the main task is resumed. Spawn signals are
// handled inline so the main task still advances exactly one frame.
func (s *Scene) step() {
	s.spawned = 0

	n := len(s.subordinates)
	for i := 0; i < n; i++ {
		s.advance(s.subordinates[i], SourceSubordinate)
	}
	s.dropFinished()

	if s.main != nil && !s.main.Done() {
		s.advance(s.main, SourceMain)
	}

	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		for _, t := range batch {
			s.start(t)
		}
	}
	s.dropFinished()
}

// advance resumes t once. While t keeps yielding spawn requests, each spawned
// task gets its first step immediately and t is resumed again within the same
// frame.
func (s *Scene) advance(t *Task, source string) {
	sig, err := t.Next()
	for sig.Kind == SignalSpawn {
		s.start(sig.Task)
		sig, err = t.Next()
	}
	if err != nil {
		s.report(&StepError{Scene: s.name, Frame: s.host.Frame(), Source: source, Err: err})
	}
}

// start gives a new subordinate its first step and registers it unless it
// already finished.
func (s *Scene) start(t *Task) {
	if t == nil || t.started || t.Done() {
		return
	}
	s.spawned++
	s.advance(t, SourceSubordinate)
	if !t.Done() {
		s.subordinates = append(s.subordinates, t)
	}
}

func (s *Scene) dropFinished() {
	kept := s.subordinates[:0]
	for _, t := range s.subordinates {
		if !t.Done() {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.subordinates); i++ {
		s.subordinates[i] = nil
	}
	s.subordinates = kept
}

// register queues t to be started at the end of the current step.
func (s *Scene) register(t *Task) {
	s.pending = append(s.pending, t)
}

// SetDebugMode enables runtime checks on element operations.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// NumSubordinates returns how many subordinate tasks are active.
func (s *Scene) NumSubordinates() int {
	return len(s.subordinates)
}

// MainDone reports whether the main procedure has finished.
func (s *Scene) MainDone() bool {
	return s.main == nil || s.main.Done()
}

// Frame returns the number of Next calls since the scene loaded.
func (s *Scene) Frame() int {
	return s.frame
}

// TransitionProgress returns the scene's transition progress in [0, 1]. It is
// 1 unless a transition is running.
func (s *Scene) TransitionProgress() float64 {
	return s.progress.Get()
}

// AddElement appends e to the scene. Nodes are assigned a scene-local ID.
func (s *Scene) AddElement(e Element) {
	if n, ok := e.(*Node); ok && n.ID == 0 {
		if s.debug {
			debugCheckDisposed(n, "AddElement")
		}
		s.nextID++
		n.ID = s.nextID
	}
	s.elements = append(s.elements, e)
}

// RemoveElement removes the first occurrence of e. It reports whether e was
// found.
func (s *Scene) RemoveElement(e Element) bool {
	for i, el := range s.elements {
		if el == e {
			copy(s.elements[i:], s.elements[i+1:])
			s.elements[len(s.elements)-1] = nil
			s.elements = s.elements[:len(s.elements)-1]
			return true
		}
	}
	return false
}

// Elements returns the scene's elements in insertion order. The returned
// slice MUST NOT be mutated.
func (s *Scene) Elements() []Element {
	return s.elements
}

// Render returns the scene's elements in paint order: ascending priority,
// insertion order among equal priorities.
func (s *Scene) Render() []Element {
	return s.sortedElements()
}

// Dispose abandons every task, unwinding their suspended procedures, and
// drops the scene's state. A disposed scene never advances again. Scenes
// owned by an Engine are disposed by it; call Dispose on scenes created
// with NewScene once they are no longer needed.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	if s.main != nil {
		s.main.Abandon()
	}
	abandonAll(s.subordinates)
	abandonAll(s.pending)
	s.subordinates = nil
	s.pending = nil
	s.elements = nil
	s.sortBuf = nil
	s.state = SceneUnloaded
	s.disposed = true
}

func (s *Scene) report(err error) {
	s.lastErr = err
	s.host.ReportError(err)
}

// detachedHost drives a Scene that is not owned by an Engine.
type detachedHost struct {
	scene *Scene
}

func (h *detachedHost) Frame() int                   { return h.scene.frame }
func (h *detachedHost) FrameRate() int               { return defaultFrameRate }
func (h *detachedHost) Marker(string) (Marker, bool) { return Marker{}, false }
func (h *detachedHost) ReportError(error)            {}
