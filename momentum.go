package touchnav

import (
	"log/slog"
	"math"
	"time"
)

// Momentum tracks one drag or flick gesture. While the pointer is down it
// turns samples into relative deltas; on release it either stops or runs a
// decay loop that keeps emitting shrinking deltas until the velocity falls
// below the slowdown factor on both axes.
//
// Deltas are reported through OnPositionChanged as (delta, gesture anchor).
// A delta points against the finger: dragging down yields a negative Y, which
// scrolls content up toward the finger.
type Momentum struct {
	// OnPositionChanged receives every emitted delta.
	OnPositionChanged func(delta, anchor Vec2)

	cfg    Config
	log    *slog.Logger
	frame  Frame
	ticker *Timer

	anchor     Vec2 // rounded press point
	previous   Vec2
	cumulative Vec2
	velocity   Vec2
	history    []Vec2 // most recent first
	inMotion   bool
}

// NewMomentum creates an idle integrator whose decay loop runs on loop.
func NewMomentum(loop *Loop, cfg Config) *Momentum {
	m := &Momentum{cfg: cfg, log: cfg.logger()}
	m.ticker = loop.NewTimer(m.decelerationTick)
	m.history = make([]Vec2, 0, cfg.DecelerationCount+1)
	return m
}

// SetConfig replaces the tuning. A running decay loop keeps its interval
// until the next Start.
func (m *Momentum) SetConfig(cfg Config) {
	m.cfg = cfg
	m.log = cfg.logger()
}

// InMotion reports whether the gesture has been classified as a pan or flick
// and has not come to rest.
func (m *Momentum) InMotion() bool {
	return m.inMotion
}

// Frame returns the frame bound by the last Start, or nil.
func (m *Momentum) Frame() Frame {
	return m.frame
}

// Velocity returns the current decay velocity.
func (m *Momentum) Velocity() Vec2 {
	return m.velocity
}

// HistoryLen returns the number of retained samples.
func (m *Momentum) HistoryLen() int {
	return len(m.history)
}

// Start begins a gesture at anchor in frame. It is a no-op when frame is nil.
// The decay loop is armed but not started.
func (m *Momentum) Start(anchor Vec2, frame Frame) {
	if frame == nil {
		return
	}
	m.frame = frame
	m.history = append(m.history[:0], anchor)
	m.ticker.SetSingleShot(false)
	m.ticker.SetInterval(time.Duration(m.cfg.DecelerationTick))
	m.previous = anchor
	m.anchor = anchor.Round()
}

// Move classifies point against the anchor and, for a flick or a pan, emits
// the delta from the previous sample. It reports whether the point moved the
// gesture.
func (m *Momentum) Move(point Vec2) bool {
	distance := squaredDistance(point.Round(), m.anchor)
	if m.isFlick(distance) || m.isPan(distance) {
		m.changePosition(point)
		return true
	}
	return false
}

// Release ends the pointer-down phase. When the gesture travelled further
// than the cumulative threshold it starts the decay loop and returns true; the
// integrator then owns the remaining motion. Otherwise it returns false and
// the caller must synthesize a normal release.
func (m *Momentum) Release(point Vec2) bool {
	if m.cumulative.ManhattanLength() > m.cfg.CumulativeDistanceThreshold && len(m.history) > 0 {
		oldest := m.history[len(m.history)-1]
		m.velocity = oldest.Sub(point).Scale(1 / float64(len(m.history)+1))
		m.ticker.Restart()
		m.log.Debug("momentum captured", "velocity", m.velocity, "samples", len(m.history))
		return true
	}
	m.inMotion = false
	return false
}

// Stop cancels the decay loop and clears all gesture state.
func (m *Momentum) Stop() {
	m.ticker.Stop()
	m.cumulative = Vec2{}
	m.previous = Vec2{}
	m.anchor = Vec2{}
	m.history = m.history[:0]
	m.inMotion = false
}

func (m *Momentum) isFlick(distance float64) bool {
	return !m.inMotion && distance > m.cfg.FlickThreshold
}

func (m *Momentum) isPan(distance float64) bool {
	return distance > m.cfg.JitterThreshold
}

func (m *Momentum) changePosition(point Vec2) {
	m.inMotion = true
	m.emit(m.previous.Sub(point))

	m.cumulative = m.cumulative.Add(point.Sub(m.previous))
	m.previous = point

	// Push front, evict the oldest once over capacity.
	m.history = append(m.history, Vec2{})
	copy(m.history[1:], m.history)
	m.history[0] = point
	if len(m.history) > m.cfg.DecelerationCount {
		m.history = m.history[:m.cfg.DecelerationCount]
	}
}

// decelerationTick is the decay loop body.
func (m *Momentum) decelerationTick() {
	if m.frame == nil {
		m.ticker.Stop()
		return
	}

	f := m.cfg.SlowdownFactor
	if math.Abs(m.velocity.X) < f && math.Abs(m.velocity.Y) < f {
		m.inMotion = false
		m.ticker.Stop()
		m.log.Debug("momentum at rest")
		return
	}

	m.velocity = m.velocity.Scale(f)
	m.emit(m.velocity.Trunc())
}

func (m *Momentum) emit(delta Vec2) {
	if m.OnPositionChanged != nil {
		m.OnPositionChanged(delta, m.anchor)
	}
}
