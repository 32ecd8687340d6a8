package touchnav

import "math"

// Vec2 is a 2D vector used for positions, deltas, and velocities throughout
// the API. The coordinate system has its origin at the top-left, with Y
// increasing downward.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by f.
func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

// ManhattanLength returns |X| + |Y|.
func (v Vec2) ManhattanLength() float64 {
	return math.Abs(v.X) + math.Abs(v.Y)
}

// Round rounds both components to the nearest integer (half away from zero).
func (v Vec2) Round() Vec2 {
	return Vec2{math.Round(v.X), math.Round(v.Y)}
}

// Trunc truncates both components toward zero.
func (v Vec2) Trunc() Vec2 {
	return Vec2{math.Trunc(v.X), math.Trunc(v.Y)}
}

// squaredDistance returns the squared Euclidean distance between p and q.
func squaredDistance(p, q Vec2) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return dx*dx + dy*dy
}

// Rect is an axis-aligned rectangle in pixel units.
type Rect struct {
	X, Y, Width, Height float64
}

// Valid reports whether the rectangle has a positive width and height.
// Elements without layout report an invalid (zero) rectangle.
func (r Rect) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Right returns the X coordinate of the last pixel column inside r.
func (r Rect) Right() float64 { return r.X + r.Width - 1 }

// Bottom returns the Y coordinate of the last pixel row inside r.
func (r Rect) Bottom() float64 { return r.Y + r.Height - 1 }

// EventKind identifies a kind of raw or synthetic pointer event.
type EventKind uint8

const (
	EventNone        EventKind = iota // zero value; never dispatched
	EventPress                        // a button went down
	EventMove                         // the pointer moved
	EventRelease                      // a button went up
	EventDoubleClick                  // platform double-click; swallowed
	EventContextMenu                  // platform context-menu request; swallowed
	EventHover                        // platform hover enter/leave/move; swallowed
	EventDrag                         // platform drag-and-drop; swallowed
	EventGesture                      // platform gesture recognizer output; swallowed
)

var eventKindNames = [...]string{"none", "press", "move", "release", "dblclick", "contextmenu", "hover", "drag", "gesture"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// MouseButton identifies a single mouse button.
type MouseButton uint8

const (
	NoButton          MouseButton = iota // no button (hover moves)
	MouseButtonLeft                      // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// MouseButtons is a bitmask of buttons held down at the time of an event.
type MouseButtons uint8

const (
	ButtonsLeft MouseButtons = 1 << iota
	ButtonsRight
	ButtonsMiddle
)

// Has reports whether button b is set in the mask.
func (m MouseButtons) Has(b MouseButton) bool {
	switch b {
	case MouseButtonLeft:
		return m&ButtonsLeft != 0
	case MouseButtonRight:
		return m&ButtonsRight != 0
	case MouseButtonMiddle:
		return m&ButtonsMiddle != 0
	}
	return false
}

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key; also the multi-select modifier
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Orientation selects a scroll axis.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// ScrollBarPolicy controls when a frame shows a scrollbar. Only
// ScrollBarAlwaysOn affects scroll routing.
type ScrollBarPolicy uint8

const (
	ScrollBarAsNeeded ScrollBarPolicy = iota
	ScrollBarAlwaysOff
	ScrollBarAlwaysOn
)
