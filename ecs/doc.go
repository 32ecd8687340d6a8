// Package ecs provides ECS adapters for touchnav's synthetic events.
//
// The primary adapter is [NewDonburiSink], which publishes every synthetic
// pointer event a navigator dispatches (hover moves, refined presses,
// releases, off-screen invalidations) into a [Donburi] world as typed events.
// Subscribe to [SyntheticEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	nav.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
