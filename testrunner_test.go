package bloomtree

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "ms": 30},
			{"action": "await", "stage": "grow-tree"},
			{"action": "click-seed"}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Ms != 30 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].stage != StageGrowTree {
		t.Errorf("step 3 stage = %v", runner.steps[3].stage)
	}
	if runner.ScreenshotDir != "screenshots" || runner.MaxFrames != defaultScriptFrames {
		t.Errorf("defaults = %q, %d", runner.ScreenshotDir, runner.MaxFrames)
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "drag"}]}`},
		{"unknown stage", `{"steps": [{"action": "await", "stage": "nope"}]}`},
		{"negative wait", `{"steps": [{"action": "wait", "ms": -1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTestRunnerScreenshots(t *testing.T) {
	show := newTestShow(t)
	runner, err := LoadTestScript([]byte(`{
		"steps": [
			{"action": "screenshot", "label": "seed"},
			{"action": "click-seed"},
			{"action": "await", "stage": "bloom-flowers"},
			{"action": "wait", "ms": 20},
			{"action": "screenshot", "label": "in bloom"},
			{"action": "await", "stage": "jump-loop"},
			{"action": "screenshot", "label": "final"}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.ScreenshotDir = t.TempDir()
	runner.MaxFrames = 200

	if err := runner.Run(context.Background(), show); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !runner.Done() {
		t.Error("Done = false after Run")
	}

	var names []string
	for _, p := range runner.Screenshots() {
		names = append(names, filepath.Base(p))
	}
	want := []string{"000_seed.png", "001_in_bloom.png", "002_final.png"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("screenshots (-want +got):\n%s", diff)
	}

	f, err := os.Open(runner.Screenshots()[2])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("screenshot size = %v", b)
	}
}

func TestTestRunnerStuck(t *testing.T) {
	show := newTestShow(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "await", "stage": "jump-loop"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.MaxFrames = 20
	if err := runner.Run(context.Background(), show); !errors.Is(err, ErrStopped) {
		t.Errorf("Run err = %v, want ErrStopped", err)
	}
	if runner.Done() {
		t.Error("stuck runner reported Done")
	}
}

func TestTestRunnerWaitAdvancesFrames(t *testing.T) {
	show := newTestShow(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "wait", "ms": 100}, {"action": "click-seed"}, {"action": "await", "stage": "shrink-seed"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.MaxFrames = 50
	if err := runner.Run(context.Background(), show); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if show.Sequencer.Stage() < StageShrinkSeed {
		t.Errorf("Stage = %v", show.Sequencer.Stage())
	}
}

func TestTestRunnerTrailingAwait(t *testing.T) {
	show := newTestShow(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click-seed"}, {"action": "await", "stage": "shrink-seed"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.MaxFrames = 50
	if err := runner.Run(context.Background(), show); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !runner.Done() {
		t.Error("Done = false after trailing await resolved")
	}
	if got := show.Sequencer.Stage(); got != StageShrinkSeed {
		t.Errorf("Stage = %v, want %v", got, StageShrinkSeed)
	}
}

func TestTestRunnerPaintsSeedOnce(t *testing.T) {
	show := newTestShow(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "screenshot", "label": "seed"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	runner.ScreenshotDir = t.TempDir()
	runner.MaxFrames = 10
	if err := runner.Run(context.Background(), show); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := newTestShow(t)
	want.Tree.Seed().Draw()
	if !cmp.Equal(want.Canvas.Image().Pix, show.Canvas.Image().Pix) {
		t.Error("canvas differs from a single seed paint")
	}
}
