// Package demo is the built-in reel project used by the command line tool,
// the preview example and the end-to-end tests. Two scenes animate five
// tiles, each showcasing a different tween type: position, scale, rotation,
// alpha and color.
package demo

import (
	"math"

	"github.com/phanxgames/reel"
)

const (
	ScreenW   = 640
	ScreenH   = 480
	TileSize  = 32
	FrameRate = 30
)

// Scene names registered by Project.
const (
	SceneIntro = "intro"
	SceneOutro = "outro"
)

// MarkerBeat is the marker the intro scene waits on before its finale.
const MarkerBeat = "beat"

// Project declares the demo: 30 fps, 8 seconds, two scenes.
func Project(p *reel.ProjectContext) error {
	p.FrameRate(FrameRate)
	p.Length(p.Seconds(8))
	p.RegisterScene(SceneIntro, Intro)
	p.RegisterScene(SceneOutro, Outro)
	return nil
}

// Timeline returns the default authored timeline for Project.
func Timeline() *reel.Timeline {
	return &reel.Timeline{
		Scenes: []reel.SceneSpan{
			{Name: SceneIntro, Length: 5 * FrameRate},
			{Name: SceneOutro, Length: 3 * FrameRate},
		},
		Markers: []reel.Marker{
			{Name: MarkerBeat, Frame: 3 * FrameRate},
		},
	}
}

// Tiles holds the five animated tiles of a scene.
type Tiles struct {
	Position *reel.Node
	Scale    *reel.Node
	Rotation *reel.Node
	Alpha    *reel.Node
	Color    *reel.Node
}

// newTiles lays out five tiles in a row across the screen, each scaled up 2x
// for visibility, plus a colored indicator dot under each one. Indicators
// follow their tile through bound cells.
func newTiles(ctx *reel.SceneContext) *Tiles {
	cx := float64(ScreenW) / 2
	cy := float64(ScreenH) / 2
	spacing := 110.0
	startX := cx - 2*spacing

	makeTile := func(name string, x float64) *reel.Node {
		n := ctx.Node(name)
		n.SetPosition(x, cy)
		n.ScaleX.Set(2)
		n.ScaleY.Set(2)
		n.SetZIndex(1)
		return n
	}

	t := &Tiles{
		Position: makeTile("position", startX),
		Scale:    makeTile("scale", startX+spacing),
		Rotation: makeTile("rotation", startX+2*spacing),
		Alpha:    makeTile("alpha", startX+3*spacing),
		Color:    makeTile("color", startX+4*spacing),
	}

	addLabel(ctx, t.Position, reel.Color{R: 0.4, G: 0.8, B: 1.0, A: 1}) // cyan
	addLabel(ctx, t.Scale, reel.Color{R: 1.0, G: 0.6, B: 0.2, A: 1})    // orange
	addLabel(ctx, t.Rotation, reel.Color{R: 0.6, G: 1.0, B: 0.4, A: 1}) // green
	addLabel(ctx, t.Alpha, reel.Color{R: 0.9, G: 0.9, B: 0.3, A: 1})    // yellow
	addLabel(ctx, t.Color, reel.Color{R: 1.0, G: 0.4, B: 0.7, A: 1})    // pink
	return t
}

// addLabel places a small colored dot below a tile. The dot tracks the tile's
// position and alpha.
func addLabel(ctx *reel.SceneContext, tile *reel.Node, c reel.Color) *reel.Node {
	dot := ctx.Node(tile.Name + "-label")
	dot.ScaleX.Set(0.25)
	dot.ScaleY.Set(0.125)
	dot.Color.Set(c)
	dot.X.Bind(tile.X.Get)
	dot.Y.Bind(func() float64 { return tile.Y.Get() + 50 })
	dot.Alpha.Bind(tile.Alpha.Get)
	return dot
}

// Intro bounces, scales, spins, fades and recolors the tiles, then waits for
// the beat marker and pulses every tile at once.
func Intro(ctx *reel.SceneContext) (reel.Proc, error) {
	t := newTiles(ctx)

	// Spin forever in the background.
	ctx.Go(reel.Forever(func() reel.Proc {
		to := t.Rotation.Rotation.Get() + math.Pi*2
		return reel.TweenRotation(t.Rotation, to, ctx.Seconds(2), reel.Ease)
	}))

	return func(yield reel.Yield) error {
		if err := ctx.Transition(ctx.Seconds(0.5), reel.EaseOut)(yield); err != nil {
			return err
		}

		// Fire and forget: color and alpha run alongside the main sequence.
		if !yield(reel.Spawn(reel.TweenColor(t.Color, reel.Color{R: 0.3, G: 0.9, B: 0.6, A: 1}, ctx.Seconds(1.5), reel.Ease))) {
			return reel.ErrAbandoned
		}
		if !yield(reel.Spawn(reel.TweenAlpha(t.Alpha, 0.1, ctx.Seconds(1.5), reel.Ease))) {
			return reel.ErrAbandoned
		}

		y := t.Position.Y.Get()
		if err := reel.TweenPosition(t.Position, t.Position.X.Get(), y-80, ctx.Seconds(0.75), reel.EaseOut)(yield); err != nil {
			return err
		}
		if err := reel.TweenPosition(t.Position, t.Position.X.Get(), y, ctx.Seconds(0.75), reel.EaseIn)(yield); err != nil {
			return err
		}
		if err := reel.TweenScale(t.Scale, 3.5, 3.5, ctx.Seconds(1), reel.EaseOut)(yield); err != nil {
			return err
		}

		if err := ctx.WaitForMarker(MarkerBeat, 0)(yield); err != nil {
			return err
		}
		return reel.All(
			reel.TweenScale(t.Scale, 2, 2, ctx.Seconds(0.5), reel.Ease),
			reel.TweenAlpha(t.Alpha, 1, ctx.Seconds(0.5), reel.Linear),
			reel.TweenColor(t.Color, reel.ColorWhite, ctx.Seconds(0.5), reel.Linear),
		)(yield)
	}, nil
}

// Outro gathers the tiles in the center and fades them out one by one.
func Outro(ctx *reel.SceneContext) (reel.Proc, error) {
	t := newTiles(ctx)
	tiles := []*reel.Node{t.Position, t.Scale, t.Rotation, t.Alpha, t.Color}
	cx := float64(ScreenW) / 2

	return func(yield reel.Yield) error {
		for _, n := range tiles {
			if !yield(reel.Spawn(reel.TweenPosition(n, cx, n.Y.Get(), ctx.Seconds(1), reel.Ease))) {
				return reel.ErrAbandoned
			}
		}
		if err := ctx.WaitSeconds(1)(yield); err != nil {
			return err
		}
		for _, n := range tiles {
			if err := reel.TweenAlpha(n, 0, ctx.Seconds(0.3), reel.EaseIn)(yield); err != nil {
				return err
			}
		}
		return ctx.Transition(ctx.Seconds(0.5), reel.Linear)(yield)
	}, nil
}

// New returns an engine for Project configured with tl, or with Timeline when
// tl is nil.
func New(tl *reel.Timeline, opts ...reel.Option) *reel.Engine {
	if tl == nil {
		tl = Timeline()
	}
	return reel.New(Project, append(tl.Options(), opts...)...)
}
