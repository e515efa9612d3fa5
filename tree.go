package bloomtree

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"
)

var (
	// ErrPlacementExhausted is returned when rejection sampling finds no
	// point inside the heart region within the configured attempts.
	ErrPlacementExhausted = errors.New("bloomtree: bloom placement exhausted")
	// ErrNoSnapshot is returned when moving or drawing a snapshot name that
	// was never captured.
	ErrNoSnapshot = errors.New("bloomtree: no such snapshot")
)

// placementMargin keeps sampled bloom centers away from the box edges.
const placementMargin = 20

// snapshot is a captured block of pixels and where it was last drawn.
type snapshot struct {
	image  *image.RGBA
	point  Vec2
	width  int
	height int
	speed  float64
}

// Tree owns every actor of the show: the seed, the footer, the growing
// branches, the active blooms, the reservoir of pre-placed blooms and the
// named pixel snapshots used to slide and replay the composition.
type Tree struct {
	surface Surface
	cfg     Config
	rng     *rand.Rand

	seed     *Seed
	footer   *Footer
	branches []*Branch
	blooms   []*Bloom

	reservoir         []*Bloom
	placementFailures int

	snapshots map[string]*snapshot
}

// NewTree builds the actors described by cfg on s and pre-places the bloom
// reservoir. cfg is expected to be valid. Blooms whose placement fails are
// skipped and counted in PlacementFailures.
func NewTree(s Surface, cfg Config, rng *rand.Rand) *Tree {
	t := &Tree{
		surface:   s,
		cfg:       cfg,
		rng:       rng,
		snapshots: make(map[string]*snapshot),
	}
	h := float64(s.Height())

	sc := cfg.Seed
	t.seed = newSeed(s, Vec2{sc.X, sc.Y}, sc.Scale, sc.Color, sc.Text, sc.Floor, h)

	fc := cfg.Footer
	t.footer = newFooter(s, Vec2{sc.X, h - fc.Height/2}, fc.Width, fc.Height, fc.Speed, fc.Color)

	t.addBranches(t.cfg.Branch.Specs)
	t.initReservoir()
	return t
}

func (t *Tree) initReservoir() {
	bc := t.cfg.Bloom
	fig := t.seed.Figure()
	t.reservoir = make([]*Bloom, 0, bc.Count)
	for range bc.Count {
		p, err := t.placeBloom(bc.Width, bc.Height)
		if err != nil {
			t.placementFailures++
			continue
		}
		alpha := bc.AlphaMin + t.rng.Float64()*(bc.AlphaMax-bc.AlphaMin)
		angle := t.rng.Float64() * 2 * math.Pi
		t.reservoir = append(t.reservoir, newGrowthBloom(fig, p, bc.Color, alpha, angle, bc.InitialScale, bc.GrowthStep))
	}
}

// placeBloom samples uniformly inside the w×h box (minus margins) until a
// point falls inside the heart region.
func (t *Tree) placeBloom(w, h float64) (Vec2, error) {
	r := t.cfg.Bloom.Radius
	for range t.cfg.Bloom.MaxAttempts {
		x := t.rng.Float64()*(w-2*placementMargin) + placementMargin
		y := t.rng.Float64()*(h-2*placementMargin) + placementMargin
		if hx, hy := HeartLocal(x, y, w, h); InHeart(hx, hy, r) {
			return Vec2{x, y}, nil
		}
	}
	return Vec2{}, fmt.Errorf("%w: %d attempts in %vx%v, radius %v",
		ErrPlacementExhausted, t.cfg.Bloom.MaxAttempts, w, h, r)
}

// Width returns the surface width.
func (t *Tree) Width() float64 { return float64(t.surface.Width()) }

// Height returns the surface height.
func (t *Tree) Height() float64 { return float64(t.surface.Height()) }

// Seed returns the seed.
func (t *Tree) Seed() *Seed { return t.seed }

// Footer returns the footer.
func (t *Tree) Footer() *Footer { return t.footer }

// Branches returns the currently growing branches. The slice MUST NOT be
// mutated.
func (t *Tree) Branches() []*Branch { return t.branches }

// Blooms returns the active blooms. The slice MUST NOT be mutated.
func (t *Tree) Blooms() []*Bloom { return t.blooms }

// Reservoir returns the blooms not yet flowered. The slice MUST NOT be
// mutated.
func (t *Tree) Reservoir() []*Bloom { return t.reservoir }

// PlacementFailures returns how many reservoir blooms could not be placed.
func (t *Tree) PlacementFailures() int { return t.placementFailures }

// --- Branches ---

func (t *Tree) addBranches(specs []BranchSpec) {
	for i := range specs {
		t.branches = append(t.branches, newBranch(&specs[i], t.cfg.Branch.Decay))
	}
}

// CanGrow reports whether any branch is still growing.
func (t *Tree) CanGrow() bool { return len(t.branches) > 0 }

// Grow advances every active branch by one disc. Branches that finish are
// replaced by their children, which start growing on the next call.
func (t *Tree) Grow() {
	active := t.branches
	t.branches = make([]*Branch, 0, len(active))
	var done []*Branch
	for _, b := range active {
		if b.grow(t.surface, t.cfg.Branch.Color) {
			done = append(done, b)
			continue
		}
		t.branches = append(t.branches, b)
	}
	for _, b := range done {
		t.addBranches(b.spec.Children)
	}
}

// --- Blooms ---

// CanFlower reports whether the reservoir still holds blooms.
func (t *Tree) CanFlower() bool { return len(t.reservoir) > 0 }

// Flower moves up to n blooms from the reservoir into the active set, then
// grows every active growth bloom one step, retiring those at full size. It
// returns how many blooms were taken from the reservoir.
func (t *Tree) Flower(n int) int {
	n = min(n, len(t.reservoir))
	t.blooms = append(t.blooms, t.reservoir[:n]...)
	t.reservoir = t.reservoir[n:]

	kept := t.blooms[:0]
	for _, b := range t.blooms {
		if !b.HasFlight() && b.flower(t.surface) {
			continue
		}
		kept = append(kept, b)
	}
	clear(t.blooms[len(kept):])
	t.blooms = kept
	return n
}

// Jump advances the flight bloom stream by one tick: blooms that left the
// stage are dropped (growth blooms along with them), survivors are drawn and
// moved, and when fewer than the configured minimum remain a few more are
// spawned.
func (t *Tree) Jump() {
	kept := t.blooms[:0]
	for _, b := range t.blooms {
		if b.alive(t.Height()) {
			kept = append(kept, b)
		}
	}
	clear(t.blooms[len(kept):])
	t.blooms = kept

	jc := t.cfg.Jump
	for _, b := range t.blooms {
		b.jump(t.surface, jc.Spin)
	}

	if len(t.blooms) >= jc.MinActive {
		return
	}
	for range t.randInt(jc.SpawnMin, jc.SpawnMax) {
		p, err := t.placeBloom(t.cfg.Bloom.Width*jc.SpawnWidthFactor, t.cfg.Bloom.Height)
		if err != nil {
			continue
		}
		c := t.cfg.Palette[t.rng.IntN(len(t.cfg.Palette))]
		target := Vec2{float64(t.randInt(int(jc.TargetXMin), int(jc.TargetXMax))), jc.TargetY}
		t.blooms = append(t.blooms, newFlightBloom(t.seed.Figure(), p, c, target, t.randInt(jc.SpeedMin, jc.SpeedMax)))
	}
}

// randInt returns a uniform integer in [lo, hi].
func (t *Tree) randInt(lo, hi int) int {
	return lo + t.rng.IntN(hi-lo+1)
}

// --- Snapshots ---

// Snapshot captures the w×h pixel block at (x, y) under name, replacing any
// earlier capture of the same name.
func (t *Tree) Snapshot(name string, x, y, w, h int) {
	t.snapshots[name] = &snapshot{
		image:  t.surface.ReadRegion(x, y, w, h),
		point:  Vec2{float64(x), float64(y)},
		width:  w,
		height: h,
		speed:  t.cfg.Slide.Speed,
	}
}

// SnapshotPoint returns where the named snapshot was last drawn.
func (t *Tree) SnapshotPoint(name string) (Vec2, bool) {
	rec, ok := t.snapshots[name]
	if !ok {
		return Vec2{}, false
	}
	return rec.point, true
}

// MoveSnapshot erases the named snapshot where it was last drawn and redraws
// it one step closer to (x, y). The step starts at the configured slide
// speed and decays geometrically toward a floor, giving an ease-out. It
// reports whether the snapshot has yet to reach the target.
func (t *Tree) MoveSnapshot(name string, x, y float64) (bool, error) {
	rec, ok := t.snapshots[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNoSnapshot, name)
	}
	next := Vec2{stepToward(rec.point.X, x, rec.speed), stepToward(rec.point.Y, y, rec.speed)}
	t.surface.ClearRect(rec.point.X, rec.point.Y, float64(rec.width), float64(rec.height))
	t.surface.WriteRegion(rec.image, int(math.Floor(next.X)), int(math.Floor(next.Y)))
	rec.point = next
	rec.speed = max(rec.speed*t.cfg.Slide.Decay, t.cfg.Slide.MinSpeed)
	return next.X != x || next.Y != y, nil
}

// DrawSnapshot repaints the named snapshot where it was last drawn.
func (t *Tree) DrawSnapshot(name string) error {
	rec, ok := t.snapshots[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoSnapshot, name)
	}
	t.surface.WriteRegion(rec.image, int(math.Floor(rec.point.X)), int(math.Floor(rec.point.Y)))
	return nil
}

// stepToward moves cur toward target by at most speed without overshooting.
func stepToward(cur, target, speed float64) float64 {
	switch {
	case cur < target:
		return min(cur+speed, target)
	case cur > target:
		return max(cur-speed, target)
	}
	return target
}
