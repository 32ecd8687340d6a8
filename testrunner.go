package touchnav

import (
	"encoding/json"
	"fmt"

	"github.com/tanema/gween/ease"
)

// testStep represents a single action in a gesture script.
type testStep struct {
	Action   string  `json:"action"`
	Frame    string  `json:"frame,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	FromX    float64 `json:"fromX,omitempty"`
	FromY    float64 `json:"fromY,omitempty"`
	ToX      float64 `json:"toX,omitempty"`
	ToY      float64 `json:"toY,omitempty"`
	Ticks    int     `json:"ticks,omitempty"`
	Duration float32 `json:"duration,omitempty"`
}

// testScript is the top-level JSON structure for a gesture script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

var knownActions = map[string]bool{
	"tap": true, "hold": true, "drag": true, "wait": true,
	"scrollTo": true, "pause": true, "resume": true,
}

// TestRunner sequences injected gestures across ticks for automated
// scenarios. Attach it with Input.SetTestRunner.
//
// Actions:
//
//	{"action":"tap","x":10,"y":10}
//	{"action":"hold","x":10,"y":10,"ticks":30}
//	{"action":"drag","fromX":0,"fromY":0,"toX":0,"toY":300,"ticks":6}
//	{"action":"wait","ticks":10}
//	{"action":"scrollTo","frame":"log","x":0,"y":200,"duration":0.25}
//	{"action":"pause"} / {"action":"resume"}
type TestRunner struct {
	doc       *Document
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON gesture script and returns a TestRunner ready
// to be attached to an Input.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !knownActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetDocument sets the document scrollTo steps operate on.
func (r *TestRunner) SetDocument(doc *Document) {
	r.doc = doc
}

// SetTestRunner attaches a TestRunner. Its step method runs at the start of
// every tick, before input is processed.
func (in *Input) SetTestRunner(runner *TestRunner) {
	in.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one tick.
func (r *TestRunner) step(in *Input) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(in.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "tap":
		in.InjectTap(st.X, st.Y)
	case "hold":
		in.InjectHold(st.X, st.Y, st.Ticks)
	case "drag":
		in.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Ticks)
	case "wait":
		if st.Ticks > 0 {
			r.waitCount = st.Ticks - 1 // this tick counts as one
		}
	case "scrollTo":
		if r.doc != nil {
			f := r.doc.Root()
			if st.Frame != "" {
				f = r.doc.FrameByName(st.Frame)
			}
			if f != nil {
				f.ScrollTo(st.X, st.Y, st.Duration, ease.OutCubic)
			}
		}
	case "pause":
		in.nav.Pause()
	case "resume":
		in.nav.Resume()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(in.injectQueue) == 0 {
		r.done = true
	}
}
