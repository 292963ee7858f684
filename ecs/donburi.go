package ecs

import (
	"github.com/phanxgames/reel"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EngineEventType is the Donburi event type for reel engine events.
// Subscribe to this in your ECS systems to receive scene changes, seeks and
// errors.
var EngineEventType = events.NewEventType[reel.Event]()

// PlayheadData is the engine position as last reported through the store.
type PlayheadData struct {
	Frame      int
	Scene      string
	SceneIndex int
	Errors     int
}

// Playhead is the component holding PlayheadData. NewDonburiStore creates one
// entity carrying it.
var Playhead = donburi.NewComponentType[PlayheadData]()

type donburiStore struct {
	world    donburi.World
	playhead donburi.Entity
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Engine events are published to EngineEventType and can be consumed with
// events.Subscribe and ProcessEvents. The playhead entity is updated
// immediately on every event.
func NewDonburiStore(world donburi.World) reel.EventStore {
	return &donburiStore{world: world, playhead: world.Create(Playhead)}
}

func (s *donburiStore) EmitEvent(event reel.Event) {
	if s.world.Valid(s.playhead) {
		p := Playhead.Get(s.world.Entry(s.playhead))
		p.Frame = event.Frame
		p.Scene = event.Scene
		p.SceneIndex = event.SceneIndex
		if event.Type == reel.EventError {
			p.Errors++
		}
	}
	EngineEventType.Publish(s.world, event)
}
