package bloomtree

// Bezier evaluates the quadratic Bézier curve through p0, p1, p2 at t.
// t is not clamped; callers keep it in [0, 1].
func Bezier(p0, p1, p2 Vec2, t float64) Vec2 {
	u := 1 - t
	return p0.Mul(u * u).Add(p1.Mul(2 * t * u)).Add(p2.Mul(t * t))
}

// InHeart reports whether (x, y) lies strictly inside the heart silhouette of
// radius r centered on the origin, with y pointing up:
//
//	(nx² + ny² - 1)³ - nx²·ny³ < 0,  n = (x, y) / r
func InHeart(x, y, r float64) bool {
	nx, ny := x/r, y/r
	a := nx*nx + ny*ny - 1
	return a*a*a-nx*nx*ny*ny*ny < 0
}

// HeartLocal maps a surface point inside a w×h placement box to the
// heart-centered, y-up coordinates InHeart expects.
func HeartLocal(x, y, w, h float64) (float64, float64) {
	return x - w/2, h - (h-40)/2 - y
}
