// Package ecs provides ECS adapters for reel's engine event system.
//
// The primary adapter is [NewDonburiStore], which bridges reel engine events
// (loads, scene changes, seeks, reloads, errors) into a [Donburi] world as
// typed events, and mirrors the engine's playhead on a [Playhead] entity.
// Subscribe to [EngineEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	engine.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
