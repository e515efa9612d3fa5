package bloomtree

// Footer is the ground line under the seed. It widens symmetrically from its
// anchor by a fixed speed per tick until it reaches its full width.
type Footer struct {
	surface Surface
	anchor  Vec2
	width   float64
	height  float64
	speed   float64
	length  float64
	color   Color
}

func newFooter(s Surface, anchor Vec2, width, height, speed float64, c Color) *Footer {
	return &Footer{surface: s, anchor: anchor, width: width, height: height, speed: speed, color: c}
}

// Length returns the current drawn length.
func (f *Footer) Length() float64 { return f.length }

// Width returns the full length the footer grows to.
func (f *Footer) Width() float64 { return f.width }

// Anchor returns the footer's center point.
func (f *Footer) Anchor() Vec2 { return f.anchor }

// Draw strokes the footer at its current length, then grows it.
func (f *Footer) Draw() {
	half := f.length / 2
	f.surface.StrokeLine(
		Vec2{f.anchor.X + half, f.anchor.Y},
		Vec2{f.anchor.X - half, f.anchor.Y},
		f.height, f.color)
	if f.length < f.width {
		f.length = min(f.length+f.speed, f.width)
	}
}
