package reel

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Easing modes available to scripts.
var (
	Linear  ease.TweenFunc = ease.Linear
	Ease    ease.TweenFunc = ease.InOutQuad
	EaseIn  ease.TweenFunc = ease.InCubic
	EaseOut ease.TweenFunc = ease.OutCubic
)

// TweenGroup animates up to 4 values simultaneously, measured in frames.
// Each Update writes the current values through apply. If the target node is
// disposed, the group stops immediately.
//
// The Tween* constructors return procedures that build their group on the
// first resume, so start values are read when the animation actually begins.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	to     [4]float64
	apply  func(v [4]float64)
	target *Node
	Done   bool
}

func newTweenGroup(target *Node, frames int, fn ease.TweenFunc, count int, from, to [4]float64, apply func(v [4]float64)) *TweenGroup {
	g := &TweenGroup{count: count, to: to, apply: apply, target: target}
	if frames <= 0 {
		apply(to)
		g.Done = true
		return g
	}
	for i := 0; i < count; i++ {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), float32(frames), fn)
	}
	return g
}

// Update advances all tweens by dt frames and applies the values. Finished
// tweens apply their exact target. If the target node has been disposed,
// Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		if finished {
			vals[i] = g.to[i]
		} else {
			vals[i] = float64(val)
			allDone = false
		}
	}
	g.apply(vals)
	g.Done = allDone
}

// run advances the group one frame per resume. An n-frame tween invoked
// during frame F writes its final value during frame F+n-1 and returns during
// frame F+n.
func (g *TweenGroup) run(yield Yield) error {
	for !g.Done {
		g.Update(1)
		if g.target != nil && g.target.IsDisposed() {
			return nil
		}
		if err := Frame(yield); err != nil {
			return err
		}
	}
	return nil
}

// Tween returns a procedure that animates c to the given value over frames
// using the easing function.
func Tween(c *Cell[float64], to float64, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		g := newTweenGroup(nil, frames, fn, 1, [4]float64{c.Get()}, [4]float64{to}, func(v [4]float64) {
			c.Set(v[0])
		})
		return g.run(yield)
	}
}

// TweenPosition returns a procedure that animates node.X and node.Y to the
// given target coordinates.
func TweenPosition(node *Node, toX, toY float64, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		from := [4]float64{node.X.Get(), node.Y.Get()}
		g := newTweenGroup(node, frames, fn, 2, from, [4]float64{toX, toY}, func(v [4]float64) {
			node.X.Set(v[0])
			node.Y.Set(v[1])
		})
		return g.run(yield)
	}
}

// TweenScale returns a procedure that animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, toSX, toSY float64, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		from := [4]float64{node.ScaleX.Get(), node.ScaleY.Get()}
		g := newTweenGroup(node, frames, fn, 2, from, [4]float64{toSX, toSY}, func(v [4]float64) {
			node.ScaleX.Set(v[0])
			node.ScaleY.Set(v[1])
		})
		return g.run(yield)
	}
}

// TweenColor returns a procedure that animates all four components of
// node.Color.
func TweenColor(node *Node, to Color, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		c := node.Color.Get()
		from := [4]float64{c.R, c.G, c.B, c.A}
		g := newTweenGroup(node, frames, fn, 4, from, [4]float64{to.R, to.G, to.B, to.A}, func(v [4]float64) {
			node.Color.Set(Color{R: v[0], G: v[1], B: v[2], A: v[3]})
		})
		return g.run(yield)
	}
}

// TweenAlpha returns a procedure that animates node.Alpha.
func TweenAlpha(node *Node, to float64, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		g := newTweenGroup(node, frames, fn, 1, [4]float64{node.Alpha.Get()}, [4]float64{to}, func(v [4]float64) {
			node.Alpha.Set(v[0])
		})
		return g.run(yield)
	}
}

// TweenRotation returns a procedure that animates node.Rotation.
func TweenRotation(node *Node, to float64, frames int, fn ease.TweenFunc) Proc {
	return func(yield Yield) error {
		g := newTweenGroup(node, frames, fn, 1, [4]float64{node.Rotation.Get()}, [4]float64{to}, func(v [4]float64) {
			node.Rotation.Set(v[0])
		})
		return g.run(yield)
	}
}
