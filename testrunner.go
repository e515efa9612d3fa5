package bloomtree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrScriptDone stops the sequencer once a test script has run out of steps.
// TestRunner.Run does not report it.
var ErrScriptDone = errors.New("bloomtree: test script done")

// defaultScriptFrames bounds a script run that never finishes.
const defaultScriptFrames = 100000

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Ms     int     `json:"ms,omitempty"`
	Stage  string  `json:"stage,omitempty"`

	stage Stage
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner plays a scripted session against a Show on a virtual clock,
// injecting clicks and writing composed frames as PNG screenshots.
//
// Actions:
//
//	{"action": "click", "x": 530, "y": 340}
//	{"action": "click-seed"}
//	{"action": "wait", "ms": 500}
//	{"action": "await", "stage": "jump-loop"}
//	{"action": "screenshot", "label": "final"}
type TestRunner struct {
	// ScreenshotDir receives the PNG files. Defaults to "screenshots".
	ScreenshotDir string
	// FrameTime is the virtual duration of one display frame.
	FrameTime time.Duration
	// MaxFrames aborts a script that never finishes.
	MaxFrames int

	steps     []testStep
	cursor    int
	waitUntil time.Duration
	awaiting  bool
	await     Stage
	last      time.Duration
	shots     []string
	done      bool
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "click", "click-seed", "screenshot":
		case "wait":
			if st.Ms < 0 {
				return nil, fmt.Errorf("parse test script: step %d: negative wait %d", i, st.Ms)
			}
		case "await":
			stage, err := ParseStage(st.Stage)
			if err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
			st.stage = stage
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{
		ScreenshotDir: "screenshots",
		FrameTime:     time.Second / 60,
		MaxFrames:     defaultScriptFrames,
		steps:         script.Steps,
	}, nil
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Screenshots returns the paths written so far.
func (r *TestRunner) Screenshots() []string {
	return r.shots
}

// Run plays show until the script is exhausted. Steps start at the first
// suspension, once the seed is painted. The show's host-side
// collaborators are advanced along with the virtual clock.
func (r *TestRunner) Run(ctx context.Context, show *Show) error {
	sched := &VirtualScheduler{
		FrameTime: r.FrameTime,
		MaxFrames: r.MaxFrames,
		OnSuspend: func(now time.Duration, _ bool) error {
			show.Advance(now - r.last)
			r.last = now
			return r.step(show, now)
		},
	}
	err := show.Run(ctx, sched)
	if errors.Is(err, ErrScriptDone) {
		return nil
	}
	if errors.Is(err, ErrStopped) {
		return fmt.Errorf("bloomtree: test script stuck at step %d after %d frames: %w", r.cursor, sched.Frames, err)
	}
	return err
}

// step executes every step that is due at now.
func (r *TestRunner) step(show *Show, now time.Duration) error {
	if r.done {
		return ErrScriptDone
	}
	for {
		if now < r.waitUntil {
			return nil
		}
		if r.awaiting {
			if show.Sequencer.Stage() < r.await {
				return nil
			}
			r.awaiting = false
		}
		if r.cursor >= len(r.steps) {
			break
		}

		st := r.steps[r.cursor]
		r.cursor++

		switch st.Action {
		case "click":
			show.Click(st.X, st.Y)
		case "click-seed":
			p := show.Tree.Seed().Point()
			show.Click(p.X, p.Y)
		case "wait":
			r.waitUntil = now + time.Duration(st.Ms)*time.Millisecond
		case "await":
			r.awaiting = true
			r.await = st.stage
		case "screenshot":
			path, err := writeScreenshot(r.ScreenshotDir, len(r.shots), st.Label, show.Compose())
			if err != nil {
				return err
			}
			r.shots = append(r.shots, path)
		}
	}
	r.done = true
	return ErrScriptDone
}
