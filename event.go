package touchnav

// RawEvent is one input occurrence as reported by a platform adapter, before
// the navigator has classified it.
type RawEvent struct {
	Kind      EventKind
	Pos       Vec2 // position relative to the view receiving input
	ScreenPos Vec2
	Button    MouseButton  // button that caused the event (NoButton for moves)
	Buttons   MouseButtons // buttons held at the time of the event
	Modifiers KeyModifiers

	// FrameRelative is set when Pos is already relative to the rendering
	// surface's item rather than a platform window.
	FrameRelative bool

	// HasDragHistory marks ButtonDownPos and LastPos as valid.
	HasDragHistory bool
	ButtonDownPos  Vec2
	LastPos        Vec2
}

// PointerEvent is the navigator's normalized snapshot of one input occurrence.
// A fresh value is built per raw event; the navigator's current touch is a
// copy it updates in place as classification proceeds.
type PointerEvent struct {
	Kind          EventKind
	Pos           Vec2
	ScreenPos     Vec2
	Button        MouseButton
	Buttons       MouseButtons
	Modifiers     KeyModifiers
	FrameRelative bool

	// Fired records that a synthetic press was already dispatched for this
	// gesture.
	Fired bool
	// Editable records that the refined hit target accepts text input.
	Editable bool

	ButtonDownPos Vec2
	LastPos       Vec2
}

// NewPointerEvent copies a raw event. Drag history is copied only when the
// raw event carries it; Fired and Editable start false.
func NewPointerEvent(raw RawEvent) PointerEvent {
	ev := PointerEvent{
		Kind:          raw.Kind,
		Pos:           raw.Pos,
		ScreenPos:     raw.ScreenPos,
		Button:        raw.Button,
		Buttons:       raw.Buttons,
		Modifiers:     raw.Modifiers,
		FrameRelative: raw.FrameRelative,
	}
	if raw.HasDragHistory {
		ev.ButtonDownPos = raw.ButtonDownPos
		ev.LastPos = raw.LastPos
	}
	return ev
}

// synthetic converts the event into the form dispatched to a Surface.
func (e *PointerEvent) synthetic() SyntheticEvent {
	return SyntheticEvent{
		Kind:          e.Kind,
		Pos:           e.Pos,
		ScreenPos:     e.ScreenPos,
		Button:        e.Button,
		Buttons:       e.Buttons,
		Modifiers:     e.Modifiers,
		FrameRelative: e.FrameRelative,
		ButtonDownPos: e.ButtonDownPos,
		LastPos:       e.LastPos,
		Editable:      e.Editable,
	}
}
