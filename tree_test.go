package bloomtree

import (
	"errors"
	"slices"
	"testing"
)

func newTestTree(t *testing.T, cfg Config) *Tree {
	t.Helper()
	c := newTestCanvas(t, cfg.Canvas.Width, cfg.Canvas.Height)
	return NewTree(c, cfg, testRand())
}

func TestTreeReservoirInHeart(t *testing.T) {
	cfg := testConfig()
	cfg.Bloom.Count = 200
	tree := newTestTree(t, cfg)

	if got := len(tree.Reservoir()) + tree.PlacementFailures(); got != 200 {
		t.Fatalf("reservoir %d + failures %d != 200", len(tree.Reservoir()), tree.PlacementFailures())
	}
	if tree.PlacementFailures() != 0 {
		t.Errorf("PlacementFailures = %d, want 0", tree.PlacementFailures())
	}
	bc := cfg.Bloom
	for i, b := range tree.Reservoir() {
		hx, hy := HeartLocal(b.Point.X, b.Point.Y, bc.Width, bc.Height)
		if !InHeart(hx, hy, bc.Radius) {
			t.Errorf("bloom %d at %v outside heart", i, b.Point)
		}
		if b.Point.X < placementMargin || b.Point.X > bc.Width-placementMargin ||
			b.Point.Y < placementMargin || b.Point.Y > bc.Height-placementMargin {
			t.Errorf("bloom %d at %v inside margin", i, b.Point)
		}
		if b.Alpha < bc.AlphaMin || b.Alpha > bc.AlphaMax {
			t.Errorf("bloom %d alpha %v out of range", i, b.Alpha)
		}
		if b.Scale != bc.InitialScale || b.HasFlight() {
			t.Errorf("bloom %d not a fresh growth bloom: %+v", i, b)
		}
	}
}

func TestTreePlacementExhausted(t *testing.T) {
	cfg := testConfig()
	cfg.Bloom.Radius = 1e-6
	cfg.Bloom.MaxAttempts = 5
	tree := newTestTree(t, cfg)

	if tree.PlacementFailures() != cfg.Bloom.Count {
		t.Errorf("PlacementFailures = %d, want %d", tree.PlacementFailures(), cfg.Bloom.Count)
	}
	if tree.CanFlower() {
		t.Error("CanFlower with empty reservoir")
	}
	if _, err := tree.placeBloom(100, 100); !errors.Is(err, ErrPlacementExhausted) {
		t.Errorf("placeBloom err = %v, want ErrPlacementExhausted", err)
	}
}

func TestTreeFlowerBatches(t *testing.T) {
	cfg := testConfig()
	cfg.Bloom.Count = 4
	tree := newTestTree(t, cfg)

	for i, want := range []int{2, 2} {
		if got := tree.Flower(2); got != want {
			t.Fatalf("call %d: Flower = %d, want %d", i+1, got, want)
		}
	}
	if tree.CanFlower() {
		t.Fatal("reservoir not drained after two batches")
	}
	if got := tree.Flower(2); got != 0 {
		t.Errorf("third Flower = %d, want 0", got)
	}

	// The first pair retires on its ninth tick, the second one tick later.
	for range 6 {
		tree.Flower(2)
	}
	if got := len(tree.Blooms()); got != 2 {
		t.Errorf("after 9 ticks: %d active blooms, want 2", got)
	}
	tree.Flower(2)
	if got := len(tree.Blooms()); got != 0 {
		t.Errorf("after 10 ticks: %d active blooms, want 0", got)
	}
}

func TestTreeGrowReplacesFinishedBranches(t *testing.T) {
	tree := newTestTree(t, testConfig())
	ticks := 0
	sawChild := false
	for tree.CanGrow() {
		tree.Grow()
		ticks++
		for _, b := range tree.Branches() {
			if b.Spec().Length == 5 {
				sawChild = true
			}
		}
		if ticks > 100 {
			t.Fatal("tree never stopped growing")
		}
	}
	// Parent of length 10, then its child of length 5.
	if ticks != 15 {
		t.Errorf("ticks = %d, want 15", ticks)
	}
	if !sawChild {
		t.Error("child branch never started")
	}
}

func TestTreeJump(t *testing.T) {
	cfg := testConfig()
	tree := newTestTree(t, cfg)
	tree.Flower(2)

	tree.Jump()
	n := len(tree.Blooms())
	if n < cfg.Jump.SpawnMin || n > cfg.Jump.SpawnMax {
		t.Fatalf("first Jump spawned %d blooms, want %d..%d", n, cfg.Jump.SpawnMin, cfg.Jump.SpawnMax)
	}
	for _, b := range tree.Blooms() {
		if !b.HasFlight() {
			t.Fatal("growth bloom survived Jump")
		}
		if !slices.Contains(cfg.Palette, b.Color) {
			t.Errorf("color %v not in palette", b.Color)
		}
		if b.Target().Y != cfg.Jump.TargetY || b.Target().X < cfg.Jump.TargetXMin || b.Target().X > cfg.Jump.TargetXMax {
			t.Errorf("target %v out of range", b.Target())
		}
		if b.Speed() < cfg.Jump.SpeedMin || b.Speed() > cfg.Jump.SpeedMax {
			t.Errorf("speed %d out of range", b.Speed())
		}
	}

	limit := cfg.Jump.MinActive - 1 + cfg.Jump.SpawnMax
	for range 500 {
		tree.Jump()
		if len(tree.Blooms()) > limit {
			t.Fatalf("%d active flight blooms, limit %d", len(tree.Blooms()), limit)
		}
	}
	if len(tree.Blooms()) < cfg.Jump.SpawnMin {
		t.Error("flight stream ran dry")
	}
}

func TestTreeSnapshotMissing(t *testing.T) {
	tree := newTestTree(t, testConfig())
	if _, err := tree.MoveSnapshot("nope", 0, 0); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("MoveSnapshot err = %v, want ErrNoSnapshot", err)
	}
	if err := tree.DrawSnapshot("nope"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("DrawSnapshot err = %v, want ErrNoSnapshot", err)
	}
	if _, ok := tree.SnapshotPoint("nope"); ok {
		t.Error("SnapshotPoint found a missing snapshot")
	}
}

func TestTreeMoveSnapshotConverges(t *testing.T) {
	cfg := testConfig()
	cfg.Canvas.Width, cfg.Canvas.Height = 1100, 50
	cfg.Slide = DefaultConfig().Slide
	tree := newTestTree(t, cfg)

	tree.Snapshot("slide", 240, 0, 610, 50)
	prev := 240.0
	moves := 0
	for {
		moving, err := tree.MoveSnapshot("slide", 500, 0)
		if err != nil {
			t.Fatal(err)
		}
		moves++
		p, _ := tree.SnapshotPoint("slide")
		if p.X <= prev || p.X > 500 {
			t.Fatalf("move %d: x went from %v to %v", moves, prev, p.X)
		}
		prev = p.X
		if !moving {
			break
		}
		if moves > 200 {
			t.Fatal("snapshot never reached its target")
		}
	}
	p, _ := tree.SnapshotPoint("slide")
	assertVec(t, "final", p, Vec2{500, 0})
	if moving, _ := tree.MoveSnapshot("slide", 500, 0); moving {
		t.Error("snapshot at target still moving")
	}
}

func TestTreeMoveSnapshotPixels(t *testing.T) {
	tree := newTestTree(t, testConfig())
	c := tree.surface.(*Canvas)
	c.FillPolygon(square(10, 10, 5), red)

	tree.Snapshot("a", 0, 0, 30, 30)
	for {
		moving, err := tree.MoveSnapshot("a", 20, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !moving {
			break
		}
	}
	if c.PixelAt(32, 12).A != 255 {
		t.Error("moved content missing at its new place")
	}
	if c.PixelAt(12, 12).A != 0 {
		t.Error("content left behind at its old place")
	}

	c.Clear()
	if err := tree.DrawSnapshot("a"); err != nil {
		t.Fatal(err)
	}
	if c.PixelAt(32, 12).A != 255 {
		t.Error("DrawSnapshot did not repaint at the last position")
	}
}

func TestTreeSingleBranchEmptyAfter100Ticks(t *testing.T) {
	cfg := testConfig()
	cfg.Branch.Specs = []BranchSpec{{Start: Vec2{535, 680}, Control: Vec2{570, 250}, End: Vec2{500, 200}, Radius: 30, Length: 100}}
	tree := newTestTree(t, cfg)
	for i := 1; i <= 100; i++ {
		if !tree.CanGrow() {
			t.Fatalf("active set empty after only %d ticks", i-1)
		}
		tree.Grow()
	}
	if tree.CanGrow() {
		t.Errorf("%d branches still active after 100 ticks", len(tree.Branches()))
	}
}

func TestTreeGrowSpawnsEveryChild(t *testing.T) {
	cfg := testConfig()
	leaf := BranchSpec{Start: Vec2{10, 10}, End: Vec2{20, 20}, Radius: 1, Length: 3}
	cfg.Branch.Specs = []BranchSpec{{Start: Vec2{0, 0}, End: Vec2{10, 10}, Radius: 3, Length: 2, Children: []BranchSpec{leaf, leaf, leaf}}}
	tree := newTestTree(t, cfg)

	tree.Grow()
	if got := len(tree.Branches()); got != 1 {
		t.Fatalf("after 1 tick: %d branches, want 1", got)
	}
	tree.Grow()
	if got := len(tree.Branches()); got != 3 {
		t.Fatalf("after parent completed: %d branches, want 3", got)
	}
	for _, b := range tree.Branches() {
		if b.Progress() != 0 {
			t.Error("child grew in the tick its parent completed")
		}
	}
}
