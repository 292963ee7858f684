package reel

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Engine is the outer clock. It owns the scene table, the active Scene and a
// frame counter that counts completed Next calls since load. Any backward seek
// discards all live state and replays from the nearest scene boundary at or
// before the target frame; scene boundaries are the only checkpoints.
//
// An Engine and every cell its scripts create must be driven from a single
// goroutine.
type Engine struct {
	project ProjectScript

	// Declared by the project script on every (re)build.
	frameRate int
	length    int
	scripts   map[string]SceneScript
	order     []string
	audio     any

	// Authored by the caller.
	spans      []SceneSpan // nil derives the table from registered scenes
	markers    []Marker
	referenced map[string]bool

	// Effective scene table.
	table  []SceneSpan
	starts []int

	frame      int
	scene      *Scene
	sceneIndex int
	loaded     bool
	started    bool

	onError func(error)
	log     zerolog.Logger
	store   EventStore

	debug bool
	stats debugStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithScenes sets the scene table. Without it the table is derived from the
// registered scenes: the project length is split evenly in registration
// order, the remainder going to the last scene.
func WithScenes(spans []SceneSpan) Option {
	return func(e *Engine) { e.spans = slices.Clone(spans) }
}

// WithMarkers sets the marker list.
func WithMarkers(markers []Marker) Option {
	return func(e *Engine) { e.markers = slices.Clone(markers) }
}

// WithErrorHandler sets the callback that receives every script and step
// error.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// WithLogger sets the engine's logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEventStore sets the receiver of engine events.
func WithEventStore(store EventStore) Option {
	return func(e *Engine) { e.store = store }
}

// New creates an unloaded engine for project. Call Load before anything else.
func New(project ProjectScript, opts ...Option) *Engine {
	e := &Engine{
		project:    project,
		frameRate:  defaultFrameRate,
		length:     defaultLength,
		sceneIndex: -1,
		referenced: make(map[string]bool),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load runs the project script and loads scene 0 at frame 0. A failing
// project script is reported, returned, and leaves the engine unloaded.
func (e *Engine) Load() error {
	defer e.catchCellErrors()()
	err := e.rebuild(0, false)
	e.started = true
	return err
}

// Reload re-runs the project script and rebuilds the state at the current
// frame. Audio tracks declared by the script are ignored.
func (e *Engine) Reload() error {
	defer e.catchCellErrors()()
	target := e.frame
	if err := e.rebuild(target, e.started); err != nil {
		return err
	}
	e.started = true
	e.log.Debug().Int("frame", e.frame).Msg("reel: reloaded")
	e.emit(EventReload)
	return nil
}

// Close discards the active scene and abandons every task it owns. The engine
// is left unloaded; Load starts it again.
func (e *Engine) Close() {
	e.discard()
	e.started = false
}

// Next advances the engine by one frame. When the new frame belongs to a
// different scene, a fresh Scene is built for it and the previous one is
// discarded. Next is a no-op on an unloaded engine.
func (e *Engine) Next() {
	if !e.loaded {
		return
	}
	defer e.catchCellErrors()()
	e.next()
}

func (e *Engine) next() {
	e.frame++

	var start time.Time
	if e.debug {
		start = time.Now()
	}
	e.scene.Next()
	if e.debug {
		e.stats = debugStats{
			stepTime:     time.Since(start),
			subordinates: e.scene.NumSubordinates(),
			spawned:      e.scene.spawned,
			elements:     len(e.scene.elements),
		}
		e.debugLog()
	}

	if i := e.SceneIndex(e.frame); i != e.sceneIndex {
		e.loadScene(i)
		e.emit(EventSceneChanged)
	}
}

// JumpToFrame seeks to target. Seeking backward rebuilds everything from the
// scene boundary at or before target; seeking forward just calls Next. Either
// way the resulting state equals the state uninterrupted playback shows at
// target. Negative targets seek to 0.
func (e *Engine) JumpToFrame(target int) error {
	if target < 0 {
		target = 0
	}
	defer e.catchCellErrors()()

	if !e.loaded || target < e.frame {
		if err := e.rebuild(target, e.started); err != nil {
			return err
		}
		e.started = true
	} else {
		for e.frame < target {
			e.next()
		}
	}
	e.log.Debug().Int("frame", e.frame).Int("scene", e.sceneIndex).Msg("reel: seek")
	e.emit(EventSeek)
	return nil
}

// rebuild discards all live state, re-runs the project script, loads the
// scene containing target at its start frame and replays up to target.
func (e *Engine) rebuild(target int, reload bool) error {
	e.discard()
	// Held on failure so the next successful reload returns to target.
	e.frame = target

	e.frameRate = defaultFrameRate
	e.length = defaultLength
	e.scripts = make(map[string]SceneScript)
	e.order = nil

	ctx := &ProjectContext{engine: e, reload: reload}
	if err := callProjectScript(e.project, ctx); err != nil {
		return e.fail(err)
	}
	if e.frameRate <= 0 {
		return e.fail(fmt.Errorf("invalid frame rate %d", e.frameRate))
	}
	if err := e.buildTable(); err != nil {
		return e.fail(err)
	}

	e.loaded = true
	if !reload {
		e.log.Info().
			Int("fps", e.frameRate).
			Int("length", e.length).
			Int("scenes", len(e.table)).
			Msg("reel: project loaded")
	}
	e.emit(EventProjectLoaded)

	i := e.SceneIndex(target)
	e.frame = e.SceneStartFrame(i)
	e.loadScene(i)
	for e.frame < target {
		e.next()
	}
	return nil
}

func callProjectScript(script ProjectScript, ctx *ProjectContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if script == nil {
		return nil
	}
	return script(ctx)
}

func (e *Engine) fail(err error) error {
	e.loaded = false
	serr := &ScriptError{Err: err}
	e.ReportError(serr)
	return serr
}

// buildTable computes the effective scene table and its prefix sums.
func (e *Engine) buildTable() error {
	e.table = e.table[:0]
	e.starts = e.starts[:0]
	if e.spans != nil {
		for _, s := range e.spans {
			if _, ok := e.scripts[s.Name]; !ok {
				return fmt.Errorf("scene %q is not registered", s.Name)
			}
		}
		e.table = append(e.table, e.spans...)
	} else {
		n := len(e.order)
		if n > 0 {
			each := e.length / n
			for i, name := range e.order {
				l := each
				if i == n-1 {
					l = e.length - each*(n-1)
				}
				e.table = append(e.table, SceneSpan{Name: name, Length: l})
			}
		}
	}
	if len(e.table) == 0 {
		return ErrNoScenes
	}

	sum := 0
	for _, s := range e.table {
		e.starts = append(e.starts, sum)
		sum += s.Length
	}
	return nil
}

// loadScene replaces the active scene with a fresh instance of scene i.
func (e *Engine) loadScene(i int) {
	if e.scene != nil {
		e.scene.Dispose()
	}
	name := e.table[i].Name
	e.sceneIndex = i
	e.scene = NewScene(name, e.scripts[name], e)
	e.scene.SetDebugMode(e.debug)
	if err := e.scene.Load(); err != nil {
		return
	}
	e.log.Debug().Str("scene", name).Int("frame", e.frame).Msg("reel: scene loaded")
	e.emit(EventSceneLoaded)
}

// discard drops the active scene and every task it owns.
func (e *Engine) discard() {
	if e.scene != nil {
		e.scene.Dispose()
		e.scene = nil
	}
	e.sceneIndex = -1
	e.loaded = false
	e.frame = 0
	e.table = e.table[:0]
	e.starts = e.starts[:0]
}

// catchCellErrors routes cell producer failures to the engine until the
// returned function is called.
func (e *Engine) catchCellErrors() func() {
	prev := SetCellErrorHandler(e.ReportError)
	return func() { SetCellErrorHandler(prev) }
}

// SceneIndex returns the index of the scene active at frame: the largest i
// whose start frame is at or before frame. Frames past the end clamp to the
// last scene. It returns -1 while there is no scene table.
func (e *Engine) SceneIndex(frame int) int {
	if len(e.starts) == 0 {
		return -1
	}
	i := sort.Search(len(e.starts), func(i int) bool { return e.starts[i] > frame }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// SceneStartFrame returns the first frame of scene index. Out of range
// indices are clamped.
func (e *Engine) SceneStartFrame(index int) int {
	if len(e.starts) == 0 {
		return 0
	}
	index = max(0, min(index, len(e.starts)-1))
	return e.starts[index]
}

// Render returns the state in effect at the current frame.
func (e *Engine) Render() FrameState {
	f := FrameState{Number: e.frame, SceneIndex: e.sceneIndex, Transition: 1}
	if e.scene == nil {
		return f
	}
	defer e.catchCellErrors()()
	f.Scene = e.scene.Name()
	f.Transition = e.scene.TransitionProgress()
	f.Elements = e.scene.Render()
	return f
}

// Frame returns the current frame.
func (e *Engine) Frame() int {
	return e.frame
}

// FrameRate returns the project's frames per second.
func (e *Engine) FrameRate() int {
	return e.frameRate
}

// Length returns the project's length in frames.
func (e *Engine) Length() int {
	return e.length
}

// Loaded reports whether the project script ran successfully.
func (e *Engine) Loaded() bool {
	return e.loaded
}

// CurrentScene returns the active scene, or nil.
func (e *Engine) CurrentScene() *Scene {
	return e.scene
}

// CurrentSceneIndex returns the index of the active scene, or -1.
func (e *Engine) CurrentSceneIndex() int {
	return e.sceneIndex
}

// Scenes returns a copy of the effective scene table.
func (e *Engine) Scenes() []SceneSpan {
	return slices.Clone(e.table)
}

// SetScenes replaces the authored scene table. It takes effect on the next
// rebuild. A nil table derives the table from registered scenes.
func (e *Engine) SetScenes(spans []SceneSpan) {
	e.spans = slices.Clone(spans)
}

// Markers returns a copy of the marker list.
func (e *Engine) Markers() []Marker {
	return slices.Clone(e.markers)
}

// SetMarkers replaces the marker list. Running waits observe the new list
// from the next frame on.
func (e *Engine) SetMarkers(markers []Marker) {
	e.markers = slices.Clone(markers)
}

// Marker looks up a marker by name and records the name as referenced.
func (e *Engine) Marker(name string) (Marker, bool) {
	e.referenced[name] = true
	for _, m := range e.markers {
		if m.Name == name {
			return m, true
		}
	}
	return Marker{}, false
}

// ReferencedMarkers returns the sorted names of every marker a script has
// waited on.
func (e *Engine) ReferencedMarkers() []string {
	names := make([]string, 0, len(e.referenced))
	for name := range e.referenced {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Audio returns the audio track declared by the project script.
func (e *Engine) Audio() any {
	return e.audio
}

// SetEventStore sets the receiver of engine events. Pass nil to disable.
func (e *Engine) SetEventStore(store EventStore) {
	e.store = store
}

// SetDebugMode enables per-frame stats, logged at debug level.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// ReportError receives every script and step error. Cell failures are tagged
// with the active scene and frame, then the error is logged, published as an
// EventError and passed to the error handler.
func (e *Engine) ReportError(err error) {
	var se *StepError
	if errors.As(err, &se) && se.Scene == "" && e.scene != nil {
		se.Scene = e.scene.Name()
		se.Frame = e.frame
	}
	e.log.Warn().Err(err).Int("frame", e.frame).Msg("reel: error")
	if e.store != nil {
		e.store.EmitEvent(Event{
			Type:       EventError,
			Frame:      e.frame,
			Scene:      e.sceneName(),
			SceneIndex: e.sceneIndex,
			Err:        err,
		})
	}
	if e.onError != nil {
		e.onError(err)
	}
}

func (e *Engine) emit(t EventType) {
	if e.store == nil {
		return
	}
	e.store.EmitEvent(Event{Type: t, Frame: e.frame, Scene: e.sceneName(), SceneIndex: e.sceneIndex})
}

func (e *Engine) sceneName() string {
	if e.scene == nil {
		return ""
	}
	return e.scene.Name()
}
