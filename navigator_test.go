package touchnav

import (
	"testing"
	"time"
)

// fakeSurface records dispatched events and reports a single frame.
type fakeSurface struct {
	frame   Frame
	current Frame
	events  []SyntheticEvent
}

func (s *fakeSurface) FrameAt(Vec2) Frame         { return s.frame }
func (s *fakeSurface) CurrentFrame() Frame        { return s.current }
func (s *fakeSurface) Dispatch(ev SyntheticEvent) { s.events = append(s.events, ev) }

func (s *fakeSurface) kinds() []EventKind {
	out := make([]EventKind, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Kind
	}
	return out
}

type navFixture struct {
	loop    *Loop
	frame   *fakeFrame
	surface *fakeSurface
	view    *DocView
	nav     *Navigator
}

func newNavFixture(t *testing.T) *navFixture {
	t.Helper()
	fx := &navFixture{loop: NewLoop(), frame: &fakeFrame{}, view: NewDocView(false)}
	fx.surface = &fakeSurface{frame: fx.frame}
	fx.nav = NewNavigator(fx.loop, fx.surface, fx.view, DefaultConfig())
	return fx
}

func (fx *navFixture) press(x, y float64) {
	fx.nav.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{x, y}, Button: MouseButtonLeft, Buttons: ButtonsLeft})
}

func (fx *navFixture) move(x, y float64) {
	fx.nav.HandleEvent(RawEvent{Kind: EventMove, Pos: Vec2{x, y}, Buttons: ButtonsLeft})
}

func (fx *navFixture) release(x, y float64) {
	fx.nav.HandleEvent(RawEvent{Kind: EventRelease, Pos: Vec2{x, y}, Button: MouseButtonLeft})
}

func (fx *navFixture) advance(ms int) {
	fx.loop.Advance(time.Duration(ms) * time.Millisecond)
}

func assertKinds(t *testing.T, got []EventKind, want ...EventKind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestNavigatorQuickTap(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(50)
	fx.release(50, 50)

	// The hover move goes out synchronously with the release.
	assertKinds(t, fx.surface.kinds(), EventMove)
	fx.advance(0)

	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
	for _, ev := range fx.surface.events {
		assertVec(t, ev.Kind.String()+" pos", ev.Pos, Vec2{50, 50})
	}
	if ev := fx.surface.events[0]; ev.Button != NoButton || ev.Buttons != 0 {
		t.Errorf("hover move button = %v/%v, want none", ev.Button, ev.Buttons)
	}
	for _, ev := range fx.surface.events[1:] {
		if ev.Button != MouseButtonLeft || ev.Buttons != 0 {
			t.Errorf("%v button = %v/%v, want left/0", ev.Kind, ev.Button, ev.Buttons)
		}
	}
}

func TestNavigatorQuickTapAfterHover(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(150)
	fx.release(50, 50)
	fx.advance(0)

	// Hover fired at 100ms; the release does not repeat it.
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
}

func TestNavigatorLongPress(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(100)
	assertKinds(t, fx.surface.kinds(), EventMove)
	fx.advance(100)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress)
	if !fx.nav.TouchDown().Fired {
		t.Error("Fired should be set after the touch-down timer")
	}

	fx.advance(500)
	fx.release(50, 50)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
	fx.advance(100)
	if len(fx.surface.events) != 3 {
		t.Errorf("extra events after release: %v", fx.surface.kinds())
	}
}

func TestNavigatorHoverOnDisabledInput(t *testing.T) {
	fx := newNavFixture(t)
	fx.frame.hit = HitTestResult{
		Element:         el("input", map[string]string{"disabled": "disabled"}),
		ContentEditable: true,
	}
	fx.press(10, 10)
	fx.advance(100)

	assertKinds(t, fx.surface.kinds(), EventMove)
	if fx.surface.events[0].Editable {
		t.Error("hover over a disabled input should not be editable")
	}
	fx.advance(100)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress)
	if fx.surface.events[1].Editable {
		t.Error("press on a disabled input should not be editable")
	}
}

func TestNavigatorDragScrolls(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(16)
	fx.move(50, 70)
	fx.advance(16)
	fx.move(50, 90)
	fx.advance(16)
	fx.move(50, 110)
	fx.release(50, 110)

	if len(fx.surface.events) != 0 {
		t.Fatalf("drag dispatched %v", fx.surface.kinds())
	}
	if len(fx.frame.scrolls) != 3 {
		t.Fatalf("scrolls = %v, want 3", fx.frame.scrolls)
	}
	assertVec(t, "first scroll", fx.frame.scrolls[0], Vec2{0, -20})
	if !fx.nav.Momentum().InMotion() {
		t.Fatal("momentum should own the gesture after release")
	}

	fx.advance(10)
	if len(fx.frame.scrolls) != 4 {
		t.Fatalf("no decay scroll after one tick: %v", fx.frame.scrolls)
	}
	fx.advance(5000)
	if fx.nav.Momentum().InMotion() {
		t.Error("decay should have come to rest")
	}
	// Hold timers were cancelled by the pan.
	if len(fx.surface.events) != 0 {
		t.Errorf("timers fired after pan: %v", fx.surface.kinds())
	}
}

func TestNavigatorDragAfterPressInvalidates(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(250)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress)

	fx.move(50, 80)
	fx.move(50, 110)
	fx.release(50, 110)

	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
	last := fx.surface.events[2]
	assertVec(t, "invalidated pos", last.Pos, Vec2{-1, -1})
	if last.Editable || last.Button != MouseButtonLeft {
		t.Errorf("invalidation release = %+v", last)
	}
}

func TestNavigatorShortDragReleasesNormally(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.advance(250)
	fx.move(50, 70) // pan, cumulative 20
	fx.release(50, 70)

	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
	assertVec(t, "release pos", fx.surface.events[2].Pos, Vec2{50, 50})
}

func TestNavigatorNewPressCancelsTimers(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(10, 10)
	fx.advance(150)
	assertKinds(t, fx.surface.kinds(), EventMove)

	fx.press(90, 90)
	fx.advance(60) // t=210: the first touch-down timer would have fired at 200
	assertKinds(t, fx.surface.kinds(), EventMove)

	fx.advance(40) // t=250: second hover
	assertKinds(t, fx.surface.kinds(), EventMove, EventMove)
	assertVec(t, "second hover", fx.surface.events[1].Pos, Vec2{90, 90})
}

func TestNavigatorNewPressStopsMomentum(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.move(50, 80)
	fx.move(50, 110)
	fx.release(50, 110)
	if !fx.nav.Momentum().InMotion() {
		t.Fatal("expected momentum")
	}

	fx.press(50, 50)
	n := len(fx.frame.scrolls)
	fx.advance(50)
	if len(fx.frame.scrolls) != n {
		t.Errorf("decay continued after new press: %v", fx.frame.scrolls[n:])
	}
}

func TestNavigatorPauseSuppressesNonEditable(t *testing.T) {
	fx := newNavFixture(t)
	fx.nav.Pause()
	if !fx.nav.Suppressed() {
		t.Fatal("Suppressed = false after Pause")
	}
	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)
	if len(fx.surface.events) != 0 {
		t.Fatalf("paused navigator dispatched %v", fx.surface.kinds())
	}

	fx.nav.Resume()
	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
}

func TestNavigatorPauseLetsEditableThrough(t *testing.T) {
	fx := newNavFixture(t)
	fx.frame.hit = HitTestResult{Element: el("input", map[string]string{"type": "text"}), ContentEditable: true}
	fx.nav.Pause()

	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)

	// The hover move precedes refinement and is not editable.
	assertKinds(t, fx.surface.kinds(), EventPress, EventRelease)
	for _, ev := range fx.surface.events {
		if !ev.Editable {
			t.Errorf("%v not editable", ev.Kind)
		}
	}
}

func TestNavigatorInputMethodOnRelease(t *testing.T) {
	t.Run("non-editable disables during dispatch", func(t *testing.T) {
		fx := newNavFixture(t)
		fx.view = NewDocView(true)
		fx.nav = NewNavigator(fx.loop, fx.surface, fx.view, DefaultConfig())
		var during []bool
		fx.nav.SetEventSink(sinkFunc(func(ev SyntheticEvent) {
			if ev.Kind == EventRelease {
				during = append(during, fx.view.InputMethodEnabled())
			}
		}))

		fx.press(50, 50)
		fx.release(50, 50)
		fx.advance(0)

		if len(during) != 1 || during[0] {
			t.Errorf("input method during release = %v, want [false]", during)
		}
		if len(fx.view.Toggles) != 2 || fx.view.Toggles[0] || !fx.view.Toggles[1] {
			t.Errorf("Toggles = %v, want [false true]", fx.view.Toggles)
		}
		if fx.view.PanelRequests != 0 {
			t.Errorf("PanelRequests = %d, want 0", fx.view.PanelRequests)
		}
	})

	t.Run("editable requests panel", func(t *testing.T) {
		fx := newNavFixture(t)
		fx.view = NewDocView(true)
		fx.nav = NewNavigator(fx.loop, fx.surface, fx.view, DefaultConfig())
		fx.frame.hit = HitTestResult{Element: el("textarea", nil), ContentEditable: true}

		fx.press(50, 50)
		fx.release(50, 50)
		fx.advance(0)

		if fx.view.PanelRequests != 1 {
			t.Errorf("PanelRequests = %d, want 1", fx.view.PanelRequests)
		}
		if !fx.view.InputMethodEnabled() {
			t.Error("input method should stay enabled")
		}
	})

	t.Run("frame-relative release leaves view alone", func(t *testing.T) {
		fx := newNavFixture(t)
		fx.view = NewDocView(true)
		fx.nav = NewNavigator(fx.loop, fx.surface, fx.view, DefaultConfig())

		fx.nav.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{50, 50}, Button: MouseButtonLeft, Buttons: ButtonsLeft, FrameRelative: true})
		fx.nav.HandleEvent(RawEvent{Kind: EventRelease, Pos: Vec2{50, 50}, Button: MouseButtonLeft, FrameRelative: true})
		fx.advance(0)

		assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
		if !fx.surface.events[2].FrameRelative {
			t.Error("release lost FrameRelative")
		}
		if len(fx.view.Toggles) != 0 || fx.view.PanelRequests != 0 {
			t.Errorf("view touched: toggles=%v panel=%d", fx.view.Toggles, fx.view.PanelRequests)
		}
	})

	t.Run("disabled input method untouched", func(t *testing.T) {
		fx := newNavFixture(t)
		fx.press(50, 50)
		fx.release(50, 50)
		fx.advance(0)
		if len(fx.view.Toggles) != 0 || fx.view.PanelRequests != 0 {
			t.Errorf("view touched: toggles=%v panel=%d", fx.view.Toggles, fx.view.PanelRequests)
		}
	})
}

func TestNavigatorMultiSelectTap(t *testing.T) {
	fx := newNavFixture(t)
	fx.frame.hit = HitTestResult{Element: el("select", map[string]string{"multiple": ""})}
	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)

	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
	if fx.surface.events[1].Modifiers != ModCtrl || fx.surface.events[2].Modifiers != ModCtrl {
		t.Errorf("modifiers = %v/%v, want ModCtrl", fx.surface.events[1].Modifiers, fx.surface.events[2].Modifiers)
	}
}

func TestNavigatorFilter(t *testing.T) {
	tests := []struct {
		name string
		raw  RawEvent
		want bool
	}{
		{"left press", RawEvent{Kind: EventPress, Buttons: ButtonsLeft}, true},
		{"right press", RawEvent{Kind: EventPress, Button: MouseButtonRight, Buttons: ButtonsRight}, true},
		{"buttonless move", RawEvent{Kind: EventMove}, true},
		{"release", RawEvent{Kind: EventRelease}, true},
		{"double click", RawEvent{Kind: EventDoubleClick}, true},
		{"context menu", RawEvent{Kind: EventContextMenu}, true},
		{"hover", RawEvent{Kind: EventHover}, true},
		{"drag", RawEvent{Kind: EventDrag}, true},
		{"gesture", RawEvent{Kind: EventGesture}, true},
		{"none", RawEvent{Kind: EventNone}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newNavFixture(t)
			if got := fx.nav.HandleEvent(tt.raw); got != tt.want {
				t.Errorf("HandleEvent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNavigatorIgnoresNonLeftPress(t *testing.T) {
	fx := newNavFixture(t)
	fx.nav.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{5, 5}, Button: MouseButtonRight, Buttons: ButtonsRight})
	fx.advance(500)
	if len(fx.surface.events) != 0 {
		t.Errorf("right press started a gesture: %v", fx.surface.kinds())
	}
}

func TestNavigatorIgnoresButtonlessMove(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.nav.HandleEvent(RawEvent{Kind: EventMove, Pos: Vec2{50, 150}})
	if len(fx.frame.scrolls) != 0 || fx.nav.Momentum().InMotion() {
		t.Error("move without the left button moved the gesture")
	}
}

func TestNavigatorUninstall(t *testing.T) {
	fx := newNavFixture(t)
	fx.press(50, 50)
	fx.nav.Uninstall()
	if fx.nav.Installed() {
		t.Fatal("Installed = true after Uninstall")
	}
	if fx.nav.HandleEvent(RawEvent{Kind: EventPress, Buttons: ButtonsLeft}) {
		t.Error("uninstalled navigator handled an event")
	}
	fx.advance(500)
	if len(fx.surface.events) != 0 {
		t.Errorf("timers survived Uninstall: %v", fx.surface.kinds())
	}

	fx.nav.Install()
	if !fx.nav.HandleEvent(RawEvent{Kind: EventRelease}) {
		t.Error("reinstalled navigator ignored release")
	}
}

func TestNavigatorCurrentFrameFallback(t *testing.T) {
	fx := newNavFixture(t)
	fallback := &fakeFrame{}
	fx.surface.frame = nil
	fx.surface.current = fallback

	fx.press(50, 50)
	if fx.nav.Frame() != Frame(fallback) {
		t.Error("navigator did not fall back to CurrentFrame")
	}
	fx.move(50, 100)
	if len(fallback.scrolls) != 1 {
		t.Errorf("fallback scrolls = %v", fallback.scrolls)
	}
}

func TestNavigatorNoFrameNoMomentum(t *testing.T) {
	fx := newNavFixture(t)
	fx.surface.frame = nil

	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)
	assertKinds(t, fx.surface.kinds(), EventMove, EventPress, EventRelease)
}

func TestNavigatorSharedMomentum(t *testing.T) {
	loop := NewLoop()
	frameA, frameB := &fakeFrame{}, &fakeFrame{}
	navA := NewNavigator(loop, &fakeSurface{frame: frameA}, nil, DefaultConfig())
	navB := NewNavigator(loop, &fakeSurface{frame: frameB}, nil, DefaultConfig())
	navB.SetMomentum(navA.Momentum())

	navB.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{0, 0}, Buttons: ButtonsLeft})
	navB.HandleEvent(RawEvent{Kind: EventMove, Pos: Vec2{0, 30}, Buttons: ButtonsLeft})
	if len(frameB.scrolls) != 1 || len(frameA.scrolls) != 0 {
		t.Fatalf("A=%v B=%v, want deltas on B", frameA.scrolls, frameB.scrolls)
	}

	navA.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{0, 0}, Buttons: ButtonsLeft})
	navA.HandleEvent(RawEvent{Kind: EventMove, Pos: Vec2{0, 30}, Buttons: ButtonsLeft})
	if len(frameA.scrolls) != 1 || len(frameB.scrolls) != 1 {
		t.Errorf("A=%v B=%v, want the latest press to win", frameA.scrolls, frameB.scrolls)
	}
}

func TestNavigatorUninstallKeepsSharedFling(t *testing.T) {
	loop := NewLoop()
	frameA, frameB := &fakeFrame{}, &fakeFrame{}
	navA := NewNavigator(loop, &fakeSurface{frame: frameA}, nil, DefaultConfig())
	navB := NewNavigator(loop, &fakeSurface{frame: frameB}, nil, DefaultConfig())
	navB.SetMomentum(navA.Momentum())

	navB.HandleEvent(RawEvent{Kind: EventPress, Pos: Vec2{0, 0}, Buttons: ButtonsLeft})
	for _, y := range []float64{30, 60, 90} {
		loop.Advance(16 * time.Millisecond)
		navB.HandleEvent(RawEvent{Kind: EventMove, Pos: Vec2{0, y}, Buttons: ButtonsLeft})
	}
	navB.HandleEvent(RawEvent{Kind: EventRelease, Pos: Vec2{0, 90}, Button: MouseButtonLeft})
	if !navB.Momentum().InMotion() {
		t.Fatal("release did not start momentum")
	}

	navA.Uninstall()
	before := len(frameB.scrolls)
	loop.Advance(50 * time.Millisecond)
	if len(frameB.scrolls) <= before {
		t.Errorf("decay scrolls = %d, want more than %d after A uninstalled", len(frameB.scrolls), before)
	}
	if !navB.Momentum().InMotion() {
		t.Error("uninstalling A stopped B's fling")
	}
	if len(frameA.scrolls) != 0 {
		t.Errorf("A scrolled %v", frameA.scrolls)
	}

	navB.Uninstall()
	if navB.Momentum().InMotion() {
		t.Error("uninstalling B kept its own fling running")
	}
}

func TestNavigatorSetConfigKeepsLogger(t *testing.T) {
	fx := newNavFixture(t)
	before := fx.nav.log
	cfg := DefaultConfig()
	cfg.HoverTimeout = Duration(30 * time.Millisecond)
	fx.nav.SetConfig(cfg)
	if fx.nav.log != before {
		t.Error("SetConfig replaced the logger")
	}

	fx.press(50, 50)
	fx.advance(30)
	assertKinds(t, fx.surface.kinds(), EventMove)
}

type sinkFunc func(SyntheticEvent)

func (f sinkFunc) EmitEvent(ev SyntheticEvent) { f(ev) }

func TestNavigatorEventSink(t *testing.T) {
	fx := newNavFixture(t)
	var got []EventKind
	fx.nav.SetEventSink(sinkFunc(func(ev SyntheticEvent) { got = append(got, ev.Kind) }))
	fx.press(50, 50)
	fx.release(50, 50)
	fx.advance(0)
	assertKinds(t, got, EventMove, EventPress, EventRelease)
}
