package touchnav

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// --- Per-pointer state ---

type pointerState struct {
	down    bool
	button  MouseButton // button captured at press time
	startX  float64
	startY  float64
	lastX   float64
	lastY   float64
	started bool // lastX/lastY hold a real sample
}

// Input polls ebiten for mouse and touch input each tick, converts state
// transitions into RawEvents for a Navigator, and advances the Loop.
// Only one pointer drives navigation at a time: the first one pressed.
type Input struct {
	// ToView converts window coordinates into the navigator's view
	// coordinates. Nil means identity.
	ToView func(x, y float64) Vec2

	nav  *Navigator
	loop *Loop

	pointers     [maxPointers]pointerState
	primary      int // pointer slot driving navigation, -1 when none
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID

	injectQueue []syntheticPointerEvent
	runner      *TestRunner
}

// NewInput creates an adapter feeding nav and advancing loop.
func NewInput(nav *Navigator, loop *Loop) *Input {
	return &Input{nav: nav, loop: loop, primary: -1}
}

// Update processes one tick of input and advances the loop by 1/TPS. Call it
// from ebiten.Game.Update.
func (in *Input) Update() {
	in.step(time.Second / time.Duration(ebiten.TPS()))
}

// step processes input for one tick of length dt. A queued injected event
// replaces real input for the tick.
func (in *Input) step(dt time.Duration) {
	if in.runner != nil {
		in.runner.step(in)
	}
	if !in.processInjectedInput() {
		mods := readModifiers()
		in.processMousePointer(mods)
		in.processTouchPointers(mods)
	}
	in.loop.Advance(dt)
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// processMousePointer handles mouse input (pointer 0).
func (in *Input) processMousePointer(mods KeyModifiers) {
	mx, my := ebiten.CursorPosition()

	var buttons MouseButtons
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= ButtonsLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= ButtonsRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= ButtonsMiddle
	}

	// Lowest button wins; processPointer keeps the press-time button while down.
	button := NoButton
	switch {
	case buttons&ButtonsLeft != 0:
		button = MouseButtonLeft
	case buttons&ButtonsRight != 0:
		button = MouseButtonRight
	case buttons&ButtonsMiddle != 0:
		button = MouseButtonMiddle
	}

	in.processPointer(0, float64(mx), float64(my), buttons != 0, button, buttons, mods)
}

// processTouchPointers handles touch input (pointers 1-9). Touches act as the
// left button.
func (in *Input) processTouchPointers(mods KeyModifiers) {
	touchIDs := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = touchIDs

	var activeSlots [maxPointers]bool
	for _, tid := range touchIDs {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		activeSlots[slot] = true

		tx, ty := ebiten.TouchPosition(tid)
		in.processPointer(slot, float64(tx), float64(ty), true, MouseButtonLeft, ButtonsLeft, mods)
	}

	// Release any touch slots that are no longer active.
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !activeSlots[i] {
			ps := &in.pointers[i]
			if ps.down {
				in.processPointer(i, ps.lastX, ps.lastY, false, MouseButtonLeft, 0, mods)
			}
			in.touchUsed[i] = false
			in.touchMap[i] = 0
			ps.started = false
		}
	}
}

// touchSlot maps an ebiten.TouchID to a pointer slot (1-9).
// Returns the existing slot or allocates a new one. Returns -1 if full.
func (in *Input) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press/move/release transitions for one pointer and
// forwards them to the navigator when the pointer is the primary one.
func (in *Input) processPointer(pointerID int, x, y float64, pressed bool, button MouseButton, buttons MouseButtons, mods KeyModifiers) {
	ps := &in.pointers[pointerID]

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.started = true
		if in.primary < 0 {
			in.primary = pointerID
		}
		if in.primary == pointerID {
			in.emit(ps, EventPress, x, y, button, buttons, mods)
		}

	case pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if in.primary == pointerID {
				in.emit(ps, EventMove, x, y, NoButton, buttons, mods)
			}
			ps.lastX, ps.lastY = x, y
		}

	case !pressed && ps.down:
		if in.primary == pointerID {
			in.emit(ps, EventRelease, x, y, ps.button, buttons, mods)
			in.primary = -1
		}
		ps.down = false
		ps.lastX, ps.lastY = x, y

	default:
		// Hover move. Only the mouse hovers.
		if ps.started && (x != ps.lastX || y != ps.lastY) && in.primary < 0 {
			in.emit(ps, EventMove, x, y, NoButton, 0, mods)
		}
		ps.lastX, ps.lastY = x, y
		ps.started = true
	}
}

func (in *Input) emit(ps *pointerState, kind EventKind, x, y float64, button MouseButton, buttons MouseButtons, mods KeyModifiers) {
	in.nav.HandleEvent(RawEvent{
		Kind:           kind,
		Pos:            in.toView(x, y),
		ScreenPos:      Vec2{x, y},
		Button:         button,
		Buttons:        buttons,
		Modifiers:      mods,
		HasDragHistory: true,
		ButtonDownPos:  in.toView(ps.startX, ps.startY),
		LastPos:        in.toView(ps.lastX, ps.lastY),
	})
}

func (in *Input) toView(x, y float64) Vec2 {
	if in.ToView != nil {
		return in.ToView(x, y)
	}
	return Vec2{x, y}
}
