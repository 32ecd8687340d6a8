package touchnav

import (
	"log/slog"
	"time"
)

// invalidPos is where a superseded synthetic press is released so that no
// element receives a click.
var invalidPos = Vec2{-1, -1}

// Navigator turns raw pointer input aimed at a rendering surface into
// synthetic pointer events and momentum scrolling.
//
// A press arms two one-shot timers: hover (100ms) replays the press position
// as a buttonless move, touch-down (200ms) replays a refined left press. Moving
// far enough to pan or flick cancels both and hands the gesture to Momentum. A
// release before either timer has fired emulates a quick tap through two
// zero-delay timers (press, then release). Every new press cancels all four
// timers and any running decay, so no stale timer fires into a newer gesture.
type Navigator struct {
	loop    *Loop
	surface Surface
	view    View
	cfg     Config
	log     *slog.Logger

	momentum *Momentum
	scroller *Scroller
	sink     EventSink

	frame     Frame
	touchDown PointerEvent

	downTimer      *Timer
	hoverTimer     *Timer
	quickDownTimer *Timer
	quickUpTimer   *Timer

	suppress  bool
	installed bool
	stats     GestureStats
}

// NewNavigator creates an installed navigator for surface, receiving raw input
// from view (which may be nil on platforms without an input method). It owns
// its own Momentum; use SetMomentum to share one across surfaces.
func NewNavigator(loop *Loop, surface Surface, view View, cfg Config) *Navigator {
	n := &Navigator{
		loop:      loop,
		surface:   surface,
		view:      view,
		cfg:       cfg,
		log:       cfg.logger(),
		installed: true,
	}
	n.scroller = NewScroller(n.log)
	n.momentum = NewMomentum(loop, cfg)
	n.momentum.OnPositionChanged = n.scroller.Scroll

	n.downTimer = loop.NewTimer(n.downTimerFired)
	n.hoverTimer = loop.NewTimer(n.hoverTimerFired)
	n.quickDownTimer = loop.NewTimer(n.quickDownTimerFired)
	n.quickUpTimer = loop.NewTimer(n.quickUpTimerFired)
	return n
}

// --- Configuration ---

// SetConfig applies new tuning to subsequent gestures. A nil Logger keeps the
// current one.
func (n *Navigator) SetConfig(cfg Config) {
	if cfg.Logger == nil && !cfg.Debug {
		cfg.Logger = n.log
	}
	n.cfg = cfg
	n.log = cfg.logger()
	n.scroller.log = n.log
	n.momentum.SetConfig(cfg)
}

// Config returns the current tuning.
func (n *Navigator) Config() Config {
	return n.cfg
}

// SetMomentum replaces the integrator, stopping the old one. Passing the same
// integrator to several navigators shares one physics engine between their
// surfaces: the surface pressed last receives its deltas.
func (n *Navigator) SetMomentum(m *Momentum) {
	if m == nil || m == n.momentum {
		return
	}
	n.momentum.Stop()
	n.momentum = m
	m.OnPositionChanged = n.scroller.Scroll
}

// Momentum returns the integrator in use.
func (n *Navigator) Momentum() *Momentum {
	return n.momentum
}

// Scroller returns the navigator's scroll router.
func (n *Navigator) Scroller() *Scroller {
	return n.scroller
}

// SetEventSink sets an optional receiver for every dispatched synthetic event.
func (n *Navigator) SetEventSink(sink EventSink) {
	n.sink = sink
}

// Frame returns the frame targeted by the current gesture, or nil.
func (n *Navigator) Frame() Frame {
	return n.frame
}

// TouchDown returns a copy of the current touch.
func (n *Navigator) TouchDown() PointerEvent {
	return n.touchDown
}

// --- Install / pause ---

// Install makes HandleEvent filter input again after Uninstall.
func (n *Navigator) Install() {
	n.installed = true
}

// Uninstall stops filtering and cancels every timer. Momentum is stopped only
// when it is running this navigator's gesture; a shared integrator driving
// another navigator's frame keeps going.
func (n *Navigator) Uninstall() {
	n.installed = false
	n.stopTimers()
	if n.momentum.Frame() == n.frame {
		n.momentum.Stop()
	}
}

// Installed reports whether HandleEvent filters input.
func (n *Navigator) Installed() bool {
	return n.installed
}

// Pause suppresses synthetic events for non-editable targets. Gesture
// tracking and momentum scrolling continue.
func (n *Navigator) Pause() {
	n.suppress = true
}

// Resume ends a Pause.
func (n *Navigator) Resume() {
	n.suppress = false
}

// Suppressed reports whether the navigator is paused.
func (n *Navigator) Suppressed() bool {
	return n.suppress
}

// --- Event filter ---

// HandleEvent consumes one raw input event and reports whether it was
// handled. Press and move are acted on only while the left button is held;
// release always is. Platform double-click, context-menu, hover, drag and
// gesture events are swallowed. Other kinds pass through.
func (n *Navigator) HandleEvent(raw RawEvent) bool {
	if !n.installed {
		return false
	}
	switch raw.Kind {
	case EventPress:
		if raw.Buttons.Has(MouseButtonLeft) {
			n.handleDownEvent(NewPointerEvent(raw))
		}
		return true
	case EventMove:
		if raw.Buttons.Has(MouseButtonLeft) {
			n.handleMoveEvent(NewPointerEvent(raw))
		}
		return true
	case EventRelease:
		n.handleReleaseEvent(NewPointerEvent(raw))
		return true
	case EventDoubleClick, EventContextMenu, EventHover, EventDrag, EventGesture:
		return true
	}
	return false
}

func (n *Navigator) stopTimers() {
	n.downTimer.Stop()
	n.hoverTimer.Stop()
	n.quickDownTimer.Stop()
	n.quickUpTimer.Stop()
}

func (n *Navigator) handleDownEvent(ev PointerEvent) {
	n.momentum.Stop()
	n.stopTimers()

	n.frame = n.surface.FrameAt(ev.Pos)
	if n.frame == nil {
		n.frame = n.surface.CurrentFrame()
	}
	n.scroller.SetFrame(n.frame)
	n.momentum.OnPositionChanged = n.scroller.Scroll

	n.touchDown = ev

	n.hoverTimer.SetSingleShot(true)
	n.hoverTimer.Start(time.Duration(n.cfg.HoverTimeout))
	n.downTimer.SetSingleShot(true)
	n.downTimer.Start(time.Duration(n.cfg.TouchDownTimeout))

	n.momentum.Start(ev.Pos, n.frame)
	n.log.Debug("touch down", "pos", ev.Pos, "frame", n.frame != nil)
}

func (n *Navigator) handleMoveEvent(ev PointerEvent) {
	if n.momentum.Move(ev.Pos) {
		n.downTimer.Stop()
		n.hoverTimer.Stop()
	}
}

func (n *Navigator) handleReleaseEvent(ev PointerEvent) {
	if !n.momentum.InMotion() && (n.hoverTimer.Active() || n.downTimer.Active()) {
		// Released before the hold timers ran: make sure the target saw the
		// pointer arrive, then replay a fast tap.
		// Sent while the hover timer is still pending, not after it fired.
		if n.hoverTimer.Active() {
			n.touchDown.Kind = EventMove
			n.touchDown.Button = NoButton
			n.touchDown.Buttons = 0
			n.generateMouseEvent(n.touchDown)
		}
		n.hoverTimer.Stop()
		n.downTimer.Stop()

		n.quickDownTimer.SetSingleShot(true)
		n.quickDownTimer.Start(0)
		n.stats.Taps++
		n.debugLog("tap")
		return
	}

	n.hoverTimer.Stop()
	n.downTimer.Stop()

	if n.momentum.Release(ev.Pos) {
		n.stats.Flings++
		n.invalidateLastTouchDown()
		n.debugLog("fling")
		return
	}

	if n.touchDown.Fired {
		n.touchDown.Kind = EventRelease
		n.touchDown.Button = MouseButtonLeft
		n.touchDown.Buttons = 0
		n.generateMouseEvent(n.touchDown)
	}
	n.debugLog("release")
}

// --- Timers ---

func (n *Navigator) hoverTimerFired() {
	n.touchDown.Kind = EventMove
	n.touchDown.Button = NoButton
	n.touchDown.Buttons = 0
	n.generateMouseEvent(n.touchDown)
}

func (n *Navigator) downTimerFired() {
	n.touchDown.Kind = EventPress
	n.touchDown.Pos = ClosestElement(n.view, n.frame, &n.touchDown, n.cfg.NodeSearchThreshold)
	n.touchDown.Button = MouseButtonLeft
	n.touchDown.Buttons = 0
	n.generateMouseEvent(n.touchDown)
	n.touchDown.Fired = true
	n.stats.LongPresses++
}

func (n *Navigator) quickDownTimerFired() {
	n.touchDown.Kind = EventPress
	n.touchDown.Pos = ClosestElement(n.view, n.frame, &n.touchDown, n.cfg.NodeSearchThreshold)
	n.touchDown.Button = MouseButtonLeft
	n.touchDown.Buttons = 0
	n.generateMouseEvent(n.touchDown)

	n.quickUpTimer.SetSingleShot(true)
	n.quickUpTimer.Start(0)
}

func (n *Navigator) quickUpTimerFired() {
	n.touchDown.Kind = EventRelease
	n.touchDown.Button = MouseButtonLeft
	n.touchDown.Buttons = 0
	n.generateMouseEvent(n.touchDown)
}

// invalidateLastTouchDown releases an already-fired synthetic press off
// screen once the gesture turned into a scroll.
func (n *Navigator) invalidateLastTouchDown() {
	if !n.touchDown.Fired {
		return
	}
	n.touchDown.Kind = EventRelease
	n.touchDown.Pos = invalidPos
	n.touchDown.Button = MouseButtonLeft
	n.touchDown.Buttons = 0
	n.touchDown.Editable = false
	n.generateMouseEvent(n.touchDown)
	n.stats.Invalidations++
}

// --- Synthesis ---

// generateMouseEvent dispatches ev unless the navigator is paused and the
// target is not editable. Window-coordinate releases on a view with an input
// method either request the input panel (editable) or disable the input
// method for the duration of the dispatch (non-editable), so a tap elsewhere
// does not move input focus. Frame-relative events leave the view alone.
func (n *Navigator) generateMouseEvent(ev PointerEvent) {
	if !ev.Editable && n.suppress {
		n.stats.Suppressed++
		return
	}

	if ev.Kind == EventRelease && !ev.FrameRelative && n.view != nil {
		if enabled := n.view.InputMethodEnabled(); enabled {
			if ev.Editable {
				n.view.RequestInputPanel()
			} else {
				n.view.SetInputMethodEnabled(false)
			}
			n.dispatch(ev)
			n.view.SetInputMethodEnabled(enabled)
			return
		}
	}
	n.dispatch(ev)
}

func (n *Navigator) dispatch(ev PointerEvent) {
	syn := ev.synthetic()
	n.surface.Dispatch(syn)
	if n.sink != nil {
		n.sink.EmitEvent(syn)
	}
	n.log.Debug("synthetic event", "kind", syn.Kind, "pos", syn.Pos,
		"button", syn.Button, "editable", syn.Editable)
}
