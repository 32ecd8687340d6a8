package touchnav

// syntheticPointerEvent is a single injected raw pointer sample. Coordinates
// are window coordinates, converted through Input.ToView like real input.
type syntheticPointerEvent struct {
	x, y    float64
	pressed bool
}

// InjectPress queues a left-button press at (x, y). Injected events are
// consumed one per tick and replace real input for that tick.
func (in *Input) InjectPress(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectMove queues a move to (x, y) with the button held. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (in *Input) InjectMove(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// InjectRelease queues a release at (x, y).
func (in *Input) InjectRelease(x, y float64) {
	in.injectQueue = append(in.injectQueue, syntheticPointerEvent{x: x, y: y, pressed: false})
}

// InjectTap queues a press followed by a release at the same point.
// Consumes two ticks.
func (in *Input) InjectTap(x, y float64) {
	in.InjectPress(x, y)
	in.InjectRelease(x, y)
}

// InjectHold queues a press at (x, y) held for ticks ticks before release.
// Minimum ticks is 2 (press + release).
func (in *Input) InjectHold(x, y float64, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	in.InjectPress(x, y)
	for i := 0; i < ticks-2; i++ {
		in.InjectMove(x, y)
	}
	in.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY), linearly
// interpolated moves over ticks-2 intermediate ticks, and release at
// (toX, toY). Minimum ticks is 2 (press + release).
func (in *Input) InjectDrag(fromX, fromY, toX, toY float64, ticks int) {
	if ticks < 2 {
		ticks = 2
	}
	in.InjectPress(fromX, fromY)
	steps := ticks - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		in.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	in.InjectRelease(toX, toY)
}

// Pending returns the number of queued injected events.
func (in *Input) Pending() int {
	return len(in.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through processPointer as the mouse pointer. Returns true if an event was
// consumed (real input should be skipped).
func (in *Input) processInjectedInput() bool {
	if len(in.injectQueue) == 0 {
		return false
	}
	evt := in.injectQueue[0]
	copy(in.injectQueue, in.injectQueue[1:])
	in.injectQueue = in.injectQueue[:len(in.injectQueue)-1]

	button, buttons := NoButton, MouseButtons(0)
	if evt.pressed {
		button, buttons = MouseButtonLeft, ButtonsLeft
	}
	in.processPointer(0, evt.x, evt.y, evt.pressed, button, buttons, 0)
	return true
}
