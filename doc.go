// Package touchnav turns raw touch or mouse input aimed at an embedded
// rendering surface into synthetic pointer events and momentum scrolling.
//
// A finger is a poor mouse. It cannot hover, and a drag should
// scroll content rather than select it. touchnav sits between the platform
// input and the surface, classifies every gesture as a tap, a long press, a
// pan or a flick, and replays what the surface should see.
//
// # Quick start
//
// Build a [Navigator] over anything implementing [Surface], feed it
// [RawEvent]s, and advance its [Loop] once per tick:
//
//	loop := touchnav.NewLoop()
//	nav := touchnav.NewNavigator(loop, surface, view, touchnav.DefaultConfig())
//
//	// per input event
//	nav.HandleEvent(raw)
//
//	// per tick
//	loop.Advance(time.Second / 60)
//
// With [Ebitengine], [Input] polls mouse and touch state each tick and
// advances the loop itself:
//
//	in := touchnav.NewInput(nav, loop)
//
//	func (g *Game) Update() error { g.in.Update(); return nil }
//
// # Gestures
//
// A press arms two timers. After 100ms the press point is replayed as a
// buttonless move so the target sees the pointer arrive; after 200ms a left
// press is replayed at a refined point. Moving beyond the jitter threshold
// cancels both and hands the gesture to [Momentum], which scrolls the
// innermost [Frame] able to move through [Scroller]. A release before either
// timer ran replays a quick press and release. A press already replayed when
// the gesture turns into a scroll is released off screen at (-1, -1).
//
// [ClosestElement] refines tap points. Editable targets mark the event
// editable and multi-select lists force the Ctrl modifier. Taps on plain
// content snap to a nearby radio button or checkbox.
//
// # Documents
//
// [Document] is an in-memory [Surface] parsed from HTML, with absolutely
// positioned elements and nested scrollable frames. It backs the tests and
// the examples, and [Overlay] draws it for debugging.
//
// # Configuration
//
// Thresholds and timeouts live in [Config]. [LoadConfig] and [SaveConfig]
// read and write TOML; [WatchConfig] reloads a file as it changes.
//
// # Automated testing
//
// [Input.InjectTap], [Input.InjectDrag] and friends queue synthetic input one
// event per tick. [LoadTestScript] sequences them from JSON.
//
// # ECS integration
//
// The touchnav/ecs module publishes every synthetic event into a [Donburi]
// world through [Navigator.SetEventSink].
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package touchnav
