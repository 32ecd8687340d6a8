package touchnav

// GestureStats counts how a navigator has classified gestures since it was
// created.
type GestureStats struct {
	Taps          int // releases replayed as a quick press/release
	LongPresses   int // touch-down timer fired
	Flings        int // releases handed to the decay loop
	Invalidations int // fired presses released off screen
	Suppressed    int // synthetic events dropped while paused
}

// Stats returns the navigator's gesture counters.
func (n *Navigator) Stats() GestureStats {
	return n.stats
}

// ResetStats zeroes the gesture counters.
func (n *Navigator) ResetStats() {
	n.stats = GestureStats{}
}

// debugLog writes the counters at debug level at the end of every gesture.
func (n *Navigator) debugLog(outcome string) {
	s := n.stats
	n.log.Debug("gesture end", "outcome", outcome,
		"taps", s.Taps, "long_presses", s.LongPresses, "flings", s.Flings,
		"invalidations", s.Invalidations, "suppressed", s.Suppressed)
}
