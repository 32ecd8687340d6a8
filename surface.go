package touchnav

import "strings"

// Surface is the embedded rendering surface the navigator replays input into.
type Surface interface {
	// FrameAt returns the innermost frame under pos, or nil.
	FrameAt(pos Vec2) Frame
	// CurrentFrame returns the frame that last had focus, or nil.
	CurrentFrame() Frame
	// Dispatch delivers a synthetic pointer event as if it came from hardware.
	Dispatch(ev SyntheticEvent)
}

// Frame is a scrollable rendering viewport, possibly nested in ancestors.
type Frame interface {
	// Parent returns the enclosing frame, or nil for the top-level frame.
	Parent() Frame
	// Pos returns the frame origin in its parent's content coordinates.
	Pos() Vec2
	// ScrollPosition returns the current content offset.
	ScrollPosition() Vec2
	// Scroll moves the content offset by (dx, dy).
	Scroll(dx, dy int)

	ScrollBarPolicy(o Orientation) ScrollBarPolicy
	ScrollBarValue(o Orientation) int
	ScrollBarMinimum(o Orientation) int
	ScrollBarMaximum(o Orientation) int

	// HitTestContent reports the element under pos (view coordinates).
	HitTestContent(pos Vec2) HitTestResult
	// FindAllElements returns the elements in this frame matching a CSS
	// selector. An invalid selector yields no elements.
	FindAllElements(selector string) []Element
}

// Element is a content element exposed by a frame.
type Element interface {
	TagName() string
	Attribute(name string) string
	HasAttribute(name string) bool
	// Geometry returns the element rectangle in frame content coordinates.
	// An element without layout returns an invalid Rect.
	Geometry() Rect
}

// HitTestResult describes the content under a point.
type HitTestResult struct {
	// Element is the hit element, nil when nothing was hit.
	Element Element
	// Link is the enclosing link element, nil when there is none.
	Link            Element
	ContentEditable bool
}

// tagName returns the lowercased tag of the hit element, or "".
func (r HitTestResult) tagName() string {
	if r.Element == nil {
		return ""
	}
	return strings.ToLower(r.Element.TagName())
}

func (r HitTestResult) attribute(name string) string {
	if r.Element == nil {
		return ""
	}
	return r.Element.Attribute(name)
}

func (r HitTestResult) hasAttribute(name string) bool {
	return r.Element != nil && r.Element.HasAttribute(name)
}

// View is the object receiving raw input for a surface.
type View interface {
	InputMethodEnabled() bool
	SetInputMethodEnabled(enabled bool)
	// RequestInputPanel asks the platform to show its software input panel.
	RequestInputPanel()
}

// SyntheticEvent is a pointer event generated by the navigator.
type SyntheticEvent struct {
	Kind          EventKind
	Pos           Vec2
	ScreenPos     Vec2
	Button        MouseButton
	Buttons       MouseButtons
	Modifiers     KeyModifiers
	FrameRelative bool
	ButtonDownPos Vec2
	LastPos       Vec2
	Editable      bool
}

// EventSink receives every synthetic event after it has been dispatched.
// The ecs adapter implements it.
type EventSink interface {
	EmitEvent(ev SyntheticEvent)
}
