package reel

import (
	"fmt"
	"time"
)

// debugStats holds per-frame timing and task metrics.
// Only populated when Engine.debug is true.
type debugStats struct {
	stepTime     time.Duration
	subordinates int
	spawned      int
	elements     int
}

// debugLog logs the last frame's stats at debug level.
func (e *Engine) debugLog() {
	if !e.debug {
		return
	}
	s := e.stats
	e.log.Debug().
		Int("frame", e.frame).
		Str("scene", e.sceneName()).
		Dur("step", s.stepTime).
		Int("subordinates", s.subordinates).
		Int("spawned", s.spawned).
		Int("elements", s.elements).
		Msg("reel: frame stats")

	if s.subordinates > debugMaxSubordinates {
		e.log.Warn().
			Int("subordinates", s.subordinates).
			Int("threshold", debugMaxSubordinates).
			Str("scene", e.sceneName()).
			Msg("reel: subordinate count exceeds threshold")
	}
}

// debugMaxSubordinates is the active subordinate count above which debug mode
// warns; runaway Forever loops that spawn every frame show up here.
const debugMaxSubordinates = 1000

// debugCheckDisposed panics with a descriptive message when a disposed node is
// added to a scene. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("reel debug: %s on disposed node %q (ID was %d)", op, n.Name, n.ID))
	}
}
