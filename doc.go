// Package reel is a frame-accurate scripted animation core.
//
// A project declares its frame rate, length and named scenes. Each scene is a
// script that sets up elements and returns a main procedure; procedures
// suspend with yield and are resumed exactly once per frame. The [Engine]
// turns this into a deterministic, seekable, frame-indexed state machine:
// whatever [Engine.JumpToFrame] produces is bit-identical to what
// uninterrupted playback shows at the same frame.
//
// Drawing is out of scope. Renderers read [Engine.Render], which returns the
// active scene's elements in paint order.
//
// # Quick start
//
//	engine := reel.New(func(p *reel.ProjectContext) error {
//		p.FrameRate(30)
//		p.Length(p.Seconds(4))
//		p.RegisterScene("intro", intro)
//		return nil
//	})
//	if err := engine.Load(); err != nil {
//		return err
//	}
//	for engine.Frame() < engine.Length() {
//		frame := engine.Render()
//		// ... draw frame.Elements ...
//		engine.Next()
//	}
//
// # Scene scripts
//
// A scene script receives a [SceneContext] and returns a [Proc]:
//
//	func intro(ctx *reel.SceneContext) (reel.Proc, error) {
//		box := ctx.Node("box")
//		return func(yield reel.Yield) error {
//			if err := reel.TweenPosition(box, 200, 0, ctx.Seconds(1), reel.Ease)(yield); err != nil {
//				return err
//			}
//			yield(reel.Spawn(reel.TweenAlpha(box, 0, 30, reel.Linear)))
//			return ctx.WaitForMarker("beat", 0)(yield)
//		}, nil
//	}
//
// Procedures compose by calling each other with the same yield. Yielding
// [Continue] ends the frame; yielding [Spawn] starts a concurrent subordinate
// task whose first step runs immediately, after which the caller resumes in
// the same frame. Within one frame every subordinate steps before the main
// procedure.
//
// # Reactive cells
//
// Every animatable property is a [Cell]. A cell holds a literal or a formula
// over other cells and recomputes lazily, only after an input changed:
//
//	label.X.Bind(func() float64 { return box.X.Get() + 20 })
//
// Invalidation is transitive, so chains of formulas never observe stale
// values. A failing formula keeps its previous value and the failure is
// reported through the engine's error handler.
//
// # Errors
//
// Script failures during load are returned as [*ScriptError] and leave the
// engine (or that scene) unloaded. Failures while stepping are reported as
// [*StepError] and never stop playback: the failing task ends and the scene
// keeps its last good state.
//
// ECS integration is available through the [Donburi] adapter in reel/ecs.
//
// [Donburi]: https://github.com/yohamta/donburi
package reel
