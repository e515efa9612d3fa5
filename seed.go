package bloomtree

import (
	"math"
	"strings"
)

// Seed footprint constants. The clear rectangle is sized from the marker
// scale so it covers the glyph, caption and marker at any shrink step.
const (
	seedClearExtent  = 26
	seedMarkerRadius = 5
	captionSize      = 9
	captionScale     = 0.75
	captionLine1Y    = 40
	captionLine2Y    = 55
	riseOvershoot    = 20
)

// Seed is the clickable star glyph the show starts from, plus the small
// marker circle that falls to the ground once the glyph has shrunk.
type Seed struct {
	surface Surface
	floorY  float64 // tree height; the marker falls until floorY + overshoot

	// glyph
	point  Vec2
	scale  float64
	color  Color
	figure *Figure

	// marker
	markerPoint Vec2
	markerScale float64

	caption []string
	floor   float64
}

// newSeed places a seed at point. floorY is the height of the tree area.
func newSeed(s Surface, point Vec2, scale float64, color Color, caption string, floor, floorY float64) *Seed {
	return &Seed{
		surface:     s,
		floorY:      floorY,
		point:       point,
		scale:       scale,
		color:       color,
		figure:      Star(20, 10, 10),
		markerPoint: point,
		markerScale: scale,
		caption:     strings.SplitN(caption, "\n", 2),
		floor:       floor,
	}
}

// Figure returns the glyph figure. Blooms share it.
func (s *Seed) Figure() *Figure { return s.figure }

// Point returns the glyph position.
func (s *Seed) Point() Vec2 { return s.point }

// GlyphScale returns the current glyph scale.
func (s *Seed) GlyphScale() float64 { return s.scale }

// MarkerPoint returns the marker circle position.
func (s *Seed) MarkerPoint() Vec2 { return s.markerPoint }

// Draw paints the glyph and its caption.
func (s *Seed) Draw() {
	s.drawGlyph()
	s.drawCaption()
}

// CanScale reports whether the glyph is still above the shrink floor.
func (s *Seed) CanScale() bool { return s.scale > s.floor }

// Shrink repaints the seed at the current scale, then multiplies the glyph
// scale by factor.
func (s *Seed) Shrink(factor float64) {
	s.clear()
	s.drawMarker()
	s.drawGlyph()
	s.drawCaption()
	s.scale *= factor
}

// CanMove reports whether the marker is still above the ground line.
func (s *Seed) CanMove() bool { return s.markerPoint.Y < s.floorY+riseOvershoot }

// Fall repaints the marker then moves it by (dx, dy).
func (s *Seed) Fall(dx, dy float64) {
	s.clear()
	s.drawMarker()
	s.markerPoint = s.markerPoint.Add(Vec2{dx, dy})
}

// Hit reports whether (x, y) lands on fully opaque surface content.
func (s *Seed) Hit(x, y float64) bool {
	return s.surface.PixelAt(int(math.Floor(x)), int(math.Floor(y))).A == 0xff
}

func (s *Seed) clear() {
	w := seedClearExtent * s.markerScale
	s.surface.ClearRect(s.markerPoint.X-w, s.markerPoint.Y-w, 4*w, 4*w)
}

func (s *Seed) drawGlyph() {
	sf := s.surface
	sf.Save()
	sf.Translate(s.point.X, s.point.Y)
	sf.FillPolygon(s.figure.Points(s.scale), s.color)
	sf.Restore()
}

func (s *Seed) drawMarker() {
	sf := s.surface
	sf.Save()
	sf.Translate(s.markerPoint.X, s.markerPoint.Y)
	sf.Scale(s.markerScale, s.markerScale)
	sf.FillCircle(Vec2{}, seedMarkerRadius, s.color)
	sf.Restore()
}

func (s *Seed) drawCaption() {
	sf := s.surface
	sf.Save()
	sf.Translate(s.point.X, s.point.Y)
	sf.Scale(s.scale*captionScale, s.scale*captionScale)
	style := TextStyle{Size: captionSize, Align: TextAlignCenter}
	black := Color{A: 1}
	for i, line := range s.caption {
		y := float64(captionLine1Y)
		if i == 1 {
			y = captionLine2Y
		}
		sf.FillText(line, 0, y, style, black)
	}
	sf.Restore()
}
