// Package ecs provides ECS adapters for touchnav.
package ecs

import (
	"github.com/phanxgames/touchnav"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SyntheticEventType is the Donburi event type for synthetic pointer events.
// Subscribe to this in your ECS systems to observe what the navigator replays
// into its surface.
var SyntheticEventType = events.NewEventType[touchnav.SyntheticEvent]()

// donburiSink queues each replayed press, move and release in the world.
// Events are delivered in dispatch order, after the surface has seen them,
// so a subscriber observes the refined tap point and the (-1,-1)
// invalidation release exactly as the surface did.
type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to SyntheticEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) touchnav.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event touchnav.SyntheticEvent) {
	SyntheticEventType.Publish(s.world, event)
}
