package touchnav

import (
	"sync"
	"time"
)

// minRecurringInterval keeps a recurring timer from re-arming at its own fire
// time and spinning inside a single Advance.
const minRecurringInterval = time.Millisecond

// Loop is a single-threaded cooperative scheduler with a virtual clock. It
// stands in for the UI event loop: timers are deferred re-entries that fire
// from Advance, ordered by fire time, and never preempt a running callback.
//
// Loop is not safe for concurrent use except for Post.
type Loop struct {
	now    time.Duration
	seq    uint64
	timers []*Timer // armed timers, unordered

	mu     sync.Mutex
	posted []func()
}

// NewLoop creates a loop with its clock at zero.
func NewLoop() *Loop {
	return &Loop{}
}

// Now returns the loop's virtual clock.
func (l *Loop) Now() time.Duration {
	return l.now
}

// Post queues fn to run at the start of the next Advance. It is the only
// method that may be called from other goroutines.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.posted = append(l.posted, fn)
	l.mu.Unlock()
}

// Advance moves the clock forward by dt, first running posted functions and
// then firing every timer due within the window in (fire time, start order).
// Timers armed by a callback with a due time inside the window fire in the
// same call, so a zero-delay timer started from a callback runs right after it.
func (l *Loop) Advance(dt time.Duration) {
	l.runPosted()

	target := l.now + dt
	for {
		t := l.nextDue(target)
		if t == nil {
			break
		}
		if t.fireAt > l.now {
			l.now = t.fireAt
		}
		if t.singleShot {
			l.disarm(t)
		} else {
			t.fireAt += t.interval
		}
		t.fn()
	}
	l.now = target
}

func (l *Loop) runPosted() {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

// nextDue returns the earliest armed timer due at or before target.
func (l *Loop) nextDue(target time.Duration) *Timer {
	var best *Timer
	for _, t := range l.timers {
		if t.fireAt > target {
			continue
		}
		if best == nil || t.fireAt < best.fireAt || (t.fireAt == best.fireAt && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (l *Loop) arm(t *Timer) {
	l.seq++
	t.seq = l.seq
	if !t.active {
		t.active = true
		l.timers = append(l.timers, t)
	}
}

func (l *Loop) disarm(t *Timer) {
	if !t.active {
		return
	}
	t.active = false
	for i, o := range l.timers {
		if o == t {
			copy(l.timers[i:], l.timers[i+1:])
			l.timers[len(l.timers)-1] = nil
			l.timers = l.timers[:len(l.timers)-1]
			return
		}
	}
}

// --- Timer ---

// Timer is a cancelable callback scheduled on a Loop. Timers are one-shot
// unless SetSingleShot(false) is called.
type Timer struct {
	loop       *Loop
	fn         func()
	interval   time.Duration
	singleShot bool
	active     bool
	fireAt     time.Duration
	seq        uint64
}

// NewTimer creates a stopped one-shot timer that calls fn when it fires.
func (l *Loop) NewTimer(fn func()) *Timer {
	return &Timer{loop: l, fn: fn, singleShot: true}
}

// SetSingleShot selects one-shot (true) or recurring (false) behavior.
func (t *Timer) SetSingleShot(single bool) {
	t.singleShot = single
}

// SetInterval sets the delay used by Restart and between recurring fires.
func (t *Timer) SetInterval(d time.Duration) {
	t.interval = d
}

// Interval returns the timer's interval.
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Start sets the interval to d and (re)arms the timer relative to now.
func (t *Timer) Start(d time.Duration) {
	t.interval = d
	t.Restart()
}

// Restart (re)arms the timer with its current interval.
func (t *Timer) Restart() {
	if !t.singleShot && t.interval < minRecurringInterval {
		t.interval = minRecurringInterval
	}
	t.fireAt = t.loop.now + t.interval
	t.loop.arm(t)
}

// Stop disarms the timer. Stopping an inactive timer is a no-op.
func (t *Timer) Stop() {
	t.loop.disarm(t)
}

// Active reports whether the timer is armed.
func (t *Timer) Active() bool {
	return t.active
}
