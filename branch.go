package bloomtree

// branchShadowBlur is the width of the soft halo stamped under each disc.
const branchShadowBlur = 2

// BranchSpec describes one quadratic Bézier branch and the branches that
// sprout from it once it has finished growing.
type BranchSpec struct {
	Start    Vec2         `yaml:"start"`
	Control  Vec2         `yaml:"control"`
	End      Vec2         `yaml:"end"`
	Radius   float64      `yaml:"radius"`
	Length   int          `yaml:"length"`
	Children []BranchSpec `yaml:"children"`
}

// Branch is one growing segment. Each tick stamps a disc along its curve,
// tapering the radius, until the curve is fully drawn.
type Branch struct {
	spec     *BranchSpec
	radius   float64
	progress int
	step     float64
	decay    float64
}

// newBranch starts growing spec; the radius is multiplied by decay after
// every disc. Lengths of one or less have no usable step and complete on
// their first tick.
func newBranch(spec *BranchSpec, decay float64) *Branch {
	b := &Branch{spec: spec, radius: spec.Radius, decay: decay}
	if spec.Length > 1 {
		b.step = 1 / float64(spec.Length-1)
	}
	return b
}

// Spec returns the branch's spec.
func (b *Branch) Spec() *BranchSpec { return b.spec }

// Radius returns the current disc radius.
func (b *Branch) Radius() float64 { return b.radius }

// Progress returns the number of discs drawn so far.
func (b *Branch) Progress() int { return b.progress }

// Done reports whether the branch has drawn its whole curve.
func (b *Branch) Done() bool { return b.spec.Length <= 1 || b.progress >= b.spec.Length }

// Point returns the curve point the next tick will stamp.
func (b *Branch) Point() Vec2 {
	return Bezier(b.spec.Start, b.spec.Control, b.spec.End, float64(b.progress)*b.step)
}

// grow stamps one disc and advances. It reports whether the branch is done
// after this tick.
func (b *Branch) grow(s Surface, c Color) bool {
	if b.Done() {
		return true
	}
	p := b.Point()
	s.FillCircle(p, b.radius+branchShadowBlur, c.WithAlpha(0.35))
	s.FillCircle(p, b.radius, c)
	b.progress++
	b.radius *= b.decay
	return b.Done()
}
