package bloomtree

// Bloom is one stamped figure with its own position, rotation, scale and
// alpha. Growth blooms grow in place; flight blooms (HasFlight) travel
// toward a target and leave the scene.
type Bloom struct {
	Point Vec2
	Color Color
	Alpha float64
	Angle float64
	Scale float64

	figure *Figure

	// growth
	initialScale float64
	growthStep   float64
	steps        int

	// flight
	target Vec2
	speed  int
	flight bool
}

// newGrowthBloom creates a bloom that grows from scale by step per tick.
func newGrowthBloom(fig *Figure, p Vec2, c Color, alpha, angle, scale, step float64) *Bloom {
	return &Bloom{
		Point:        p,
		Color:        c,
		Alpha:        alpha,
		Angle:        angle,
		Scale:        scale,
		figure:       fig,
		initialScale: scale,
		growthStep:   step,
	}
}

// newFlightBloom creates a full-size bloom that reaches target in speed ticks.
func newFlightBloom(fig *Figure, p Vec2, c Color, target Vec2, speed int) *Bloom {
	return &Bloom{
		Point:  p,
		Color:  c,
		Alpha:  1,
		Scale:  1,
		figure: fig,
		target: target,
		speed:  speed,
		flight: true,
	}
}

// HasFlight reports whether b is a flight bloom.
func (b *Bloom) HasFlight() bool { return b.flight }

// Target returns the flight target.
func (b *Bloom) Target() Vec2 { return b.target }

// Speed returns the remaining flight ticks.
func (b *Bloom) Speed() int { return b.speed }

// Draw stamps the figure with the bloom's transform and alpha.
func (b *Bloom) Draw(s Surface) {
	s.Save()
	s.SetAlpha(b.Alpha)
	s.Translate(b.Point.X, b.Point.Y)
	s.Scale(b.Scale, b.Scale)
	s.Rotate(b.Angle)
	s.FillPolygon(b.figure.Points(1), b.Color)
	s.Restore()
}

// flower grows the bloom one step and draws it. It reports whether the
// bloom has reached full size and should be retired.
func (b *Bloom) flower(s Surface) bool {
	b.steps++
	b.Scale = b.initialScale + float64(b.steps)*b.growthStep
	if b.Scale > 1-growthEpsilon {
		b.Scale = 1
	}
	b.Draw(s)
	return b.Scale >= 1
}

// growthEpsilon absorbs float error so a bloom stepping 0.1 from 0.1
// reaches full size on its ninth tick.
const growthEpsilon = 1e-9

// flightMargin is how far past the left and bottom edges a flight bloom may
// travel before it is dropped.
const flightMargin = 20

// alive reports whether a flight bloom is still on stage.
func (b *Bloom) alive(height float64) bool {
	if !b.flight || b.speed <= 0 {
		return false
	}
	return b.Point.X >= -flightMargin && b.Point.Y <= height+flightMargin
}

// jump draws a flight bloom then moves it 1/speed of the way to its target.
func (b *Bloom) jump(s Surface, spin float64) {
	b.Draw(s)
	b.Point = b.Point.Add(b.target.Sub(b.Point).Div(float64(b.speed)))
	b.Angle += spin
	b.speed--
}
