package reel

// EventType identifies a kind of engine event.
type EventType uint8

const (
	EventProjectLoaded EventType = iota // fires after the project script ran successfully
	EventSceneLoaded                    // fires when a fresh scene finished its first step
	EventSceneChanged                   // fires when Next crosses a scene boundary
	EventSeek                           // fires after JumpToFrame reached its target
	EventReload                         // fires after Reload rebuilt the current frame
	EventError                          // fires for every reported script or step error
)

func (t EventType) String() string {
	switch t {
	case EventProjectLoaded:
		return "project-loaded"
	case EventSceneLoaded:
		return "scene-loaded"
	case EventSceneChanged:
		return "scene-changed"
	case EventSeek:
		return "seek"
	case EventReload:
		return "reload"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event describes something that happened inside the Engine.
type Event struct {
	Type       EventType
	Frame      int
	Scene      string
	SceneIndex int
	Err        error
}

// EventStore receives engine events. Set one with WithEventStore or
// Engine.SetEventStore to bridge the engine into an external system such as
// an ECS world.
type EventStore interface {
	// EmitEvent is called synchronously from inside Load, Next, JumpToFrame
	// and Reload.
	EmitEvent(event Event)
}
