package touchnav

import "log/slog"

// Scroller routes momentum deltas to the innermost frame in a chain that can
// still move in the requested direction.
type Scroller struct {
	frame Frame
	log   *slog.Logger
}

// NewScroller creates a scroller with no frame bound. logger may be nil.
func NewScroller(logger *slog.Logger) *Scroller {
	if logger == nil {
		logger = DefaultConfig().logger()
	}
	return &Scroller{log: logger}
}

// SetFrame binds the frame that scroll routing starts from.
func (s *Scroller) SetFrame(frame Frame) {
	s.frame = frame
}

// Frame returns the bound frame, or nil.
func (s *Scroller) Frame() Frame {
	return s.frame
}

// Scroll applies delta starting at the bound frame. anchor is the gesture's
// screen anchor. With no frame bound, or no frame in the chain able to move,
// the delta is dropped.
func (s *Scroller) Scroll(delta, anchor Vec2) {
	if s.frame == nil {
		return
	}
	d := delta.Trunc()
	if scrollRecursively(s.frame, int(d.X), int(d.Y)) == nil {
		s.log.Debug("scroll delta dropped", "dx", d.X, "dy", d.Y,
			"anchor", anchor.Sub(s.frame.ScrollPosition()))
	}
}

// scrollRecursively walks frame and its ancestors and scrolls the first one
// with a movable axis. Axes pinned with ScrollBarAlwaysOn are movable only
// while the scroll value has room toward the delta; other policies always are.
func scrollRecursively(frame Frame, dx, dy int) Frame {
	for f := frame; f != nil; f = f.Parent() {
		if axisScrollable(f, Horizontal, dx) || axisScrollable(f, Vertical, dy) {
			f.Scroll(dx, dy)
			return f
		}
	}
	return nil
}

func axisScrollable(f Frame, o Orientation, d int) bool {
	if f.ScrollBarPolicy(o) != ScrollBarAlwaysOn {
		return true
	}
	switch {
	case d > 0:
		return f.ScrollBarValue(o) < f.ScrollBarMaximum(o)
	case d < 0:
		return f.ScrollBarValue(o) > f.ScrollBarMinimum(o)
	}
	return false
}
