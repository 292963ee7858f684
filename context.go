package reel

import (
	"math"

	"github.com/tanema/gween/ease"
)

// SceneContext is the capability set a scene script gets: element management,
// frame/time conversions, waits, subordinate-task registration and
// transition helpers. It is only valid for the scene it was created for.
type SceneContext struct {
	scene *Scene
}

// Name returns the scene's name.
func (c *SceneContext) Name() string {
	return c.scene.name
}

// Add appends elements to the scene.
func (c *SceneContext) Add(elements ...Element) {
	for _, e := range elements {
		c.scene.AddElement(e)
	}
}

// Node creates a Node with default properties and adds it to the scene.
func (c *SceneContext) Node(name string) *Node {
	n := NewNode(name)
	c.scene.AddElement(n)
	return n
}

// Remove removes an element from the scene.
func (c *SceneContext) Remove(e Element) {
	c.scene.RemoveElement(e)
}

// Frame returns the current frame of whatever drives the scene.
func (c *SceneContext) Frame() int {
	return c.scene.host.Frame()
}

// SceneFrame returns the number of frames since the scene loaded.
func (c *SceneContext) SceneFrame() int {
	return c.scene.frame
}

// FrameRate returns frames per second.
func (c *SceneContext) FrameRate() int {
	return c.scene.host.FrameRate()
}

// Seconds converts seconds to frames, rounding up.
func (c *SceneContext) Seconds(s float64) int {
	return secondsToFrames(s, c.FrameRate())
}

// Minutes converts minutes to frames, rounding up.
func (c *SceneContext) Minutes(m float64) int {
	return secondsToFrames(m*60, c.FrameRate())
}

// ToSeconds converts frames to seconds.
func (c *SceneContext) ToSeconds(frames int) float64 {
	return float64(frames) / float64(c.FrameRate())
}

func secondsToFrames(s float64, rate int) int {
	return int(math.Ceil(s * float64(rate)))
}

// Wait returns a procedure that completes after n frames.
func (c *SceneContext) Wait(n int) Proc {
	return Wait(n)
}

// WaitSeconds is Wait with the length given in seconds.
func (c *SceneContext) WaitSeconds(s float64) Proc {
	return Wait(c.Seconds(s))
}

// WaitWhile returns a procedure that polls cond once per frame until it
// reports false.
func (c *SceneContext) WaitWhile(cond func() bool) Proc {
	return While(cond)
}

// WaitForMarker returns a procedure that completes on the first frame at or
// after the named marker's frame plus offset. While no marker has that name
// it keeps waiting; markers may be added later.
func (c *SceneContext) WaitForMarker(name string, offset int) Proc {
	host := c.scene.host
	return While(func() bool {
		m, ok := host.Marker(name)
		return !ok || host.Frame() < m.Frame+offset
	})
}

// Go registers p as a subordinate task. Its first step runs at the end of
// the current step, after the main task; from then on it advances once per
// frame until it finishes.
func (c *SceneContext) Go(p Proc) *Task {
	t := NewTask(p)
	c.scene.register(t)
	return t
}

// Animate returns a procedure that calls op once per frame for n frames with
// the eased progress in (0, 1].
func (c *SceneContext) Animate(n int, fn ease.TweenFunc, op func(t float64)) Proc {
	return func(yield Yield) error {
		g := newTweenGroup(nil, n, fn, 1, [4]float64{0}, [4]float64{1}, func(v [4]float64) {
			op(v[0])
		})
		return g.run(yield)
	}
}

// Transition returns a procedure that drives the scene's transition progress
// from 0 to 1 over n frames.
func (c *SceneContext) Transition(n int, fn ease.TweenFunc) Proc {
	progress := c.scene.progress
	return func(yield Yield) error {
		progress.Set(0)
		return Tween(progress, 1, n, fn)(yield)
	}
}
