package bloomtree

import "math"

// affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine [6]float64

// identityTransform is the identity affine matrix.
var identityTransform = affine{1, 0, 0, 1, 0, 0}

// multiplyAffine multiplies two 2D affine matrices: result = p * c.
func multiplyAffine(p, c affine) affine {
	return affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// translated returns m followed (in local space) by a translation.
func (m affine) translated(x, y float64) affine {
	return multiplyAffine(m, affine{1, 0, 0, 1, x, y})
}

// scaled returns m followed (in local space) by a scale.
func (m affine) scaled(sx, sy float64) affine {
	return multiplyAffine(m, affine{sx, 0, 0, sy, 0, 0})
}

// rotated returns m followed (in local space) by a clockwise rotation in
// radians (y points down).
func (m affine) rotated(theta float64) affine {
	sin, cos := math.Sincos(theta)
	return multiplyAffine(m, affine{cos, sin, -sin, cos, 0, 0})
}

// apply transforms a point.
func (m affine) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// uniformScale is the average linear scale factor of m, used to size text and
// circle tessellation.
func (m affine) uniformScale() float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[2]*m[1]))
}

// bounds returns the device-space bounding box of the local rectangle.
func (m affine) bounds(x, y, w, h float64) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		px, py := m.apply(p[0], p[1])
		minX, maxX = math.Min(minX, px), math.Max(maxX, px)
		minY, maxY = math.Min(minY, py), math.Max(maxY, py)
	}
	return minX, minY, maxX, maxY
}
