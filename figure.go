package bloomtree

import "math"

// Figure is the ordered vertex list of a closed polygon. Vertex order is draw
// order. A Figure never changes after construction, so one instance can be
// shared by every bloom that stamps it.
type Figure struct {
	points []Vec2
}

// NewFigure returns a figure over a copy of points.
func NewFigure(points []Vec2) *Figure {
	return &Figure{points: append([]Vec2(nil), points...)}
}

// Star returns an n-vertex star alternating between the outer and inner
// radius at equal angular steps. Vertex 0 is the outer tip at angle 0.
func Star(outer, inner float64, n int) *Figure {
	f := &Figure{points: make([]Vec2, n)}
	step := 2 * math.Pi / float64(n)
	for i := range n {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		sin, cos := math.Sincos(float64(i) * step)
		f.points[i] = Vec2{r * cos, r * sin}
	}
	return f
}

// Len returns the number of vertices.
func (f *Figure) Len() int { return len(f.points) }

// Point returns vertex i scaled by s.
func (f *Figure) Point(i int, s float64) Vec2 {
	return f.points[i].Mul(s)
}

// Points returns all vertices scaled by s in a new slice.
func (f *Figure) Points(s float64) []Vec2 {
	out := make([]Vec2, len(f.points))
	for i, p := range f.points {
		out[i] = p.Mul(s)
	}
	return out
}
