package reel

const (
	defaultFrameRate = 60
	defaultLength    = 60
)

// ProjectScript declares a project: frame rate, total length and the named
// scene scripts. It runs on Load and again on every rebuild (backward seek or
// Reload).
type ProjectScript func(p *ProjectContext) error

// ProjectContext is the capability set a project script gets.
type ProjectContext struct {
	engine *Engine
	reload bool
}

// FrameRate sets the project's frames per second.
func (p *ProjectContext) FrameRate(n int) {
	p.engine.frameRate = n
}

// Length sets the project's total length in frames.
func (p *ProjectContext) Length(n int) {
	p.engine.length = n
}

// Seconds converts seconds to frames at the current frame rate, rounding up.
func (p *ProjectContext) Seconds(s float64) int {
	return secondsToFrames(s, p.engine.frameRate)
}

// Minutes converts minutes to frames at the current frame rate, rounding up.
func (p *ProjectContext) Minutes(m float64) int {
	return secondsToFrames(m*60, p.engine.frameRate)
}

// RegisterScene makes script available under name. Registering a name twice
// replaces the script but keeps its original registration position.
func (p *ProjectContext) RegisterScene(name string, script SceneScript) {
	e := p.engine
	if _, ok := e.scripts[name]; !ok {
		e.order = append(e.order, name)
	}
	e.scripts[name] = script
}

// AudioTrack attaches an opaque audio reference to the engine. It is ignored
// when the project script runs again during a rebuild.
func (p *ProjectContext) AudioTrack(track any) {
	if p.reload {
		return
	}
	p.engine.audio = track
}

// Reloading reports whether the script is running for a rebuild rather than
// the initial Load.
func (p *ProjectContext) Reloading() bool {
	return p.reload
}
