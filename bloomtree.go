package bloomtree

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Vec2 is a 2D point or direction. It is a value type: every arithmetic
// method returns a new Vec2 and leaves the receiver untouched.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Div returns v divided by s.
func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Hypot returns the length of v.
func (v Vec2) Hypot() float64 { return math.Hypot(v.X, v.Y) }

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication happens when a color is rasterized.
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// premultiplied converts c to a premultiplied 8-bit color after multiplying
// its alpha by the extra factor.
func (c Color) premultiplied(alpha float64) color.RGBA {
	a := clamp01(c.A * alpha)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.premultiplied(1).RGBA()
}

// String formats c the way ParseColor reads it back.
func (c Color) String() string {
	p := func(v float64) int { return int(clamp01(v)*255 + 0.5) }
	if c.A >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", p(c.R), p(c.G), p(c.B))
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", p(c.R), p(c.G), p(c.B), p(c.A))
}

// ParseColor reads "#rgb", "#rrggbb", "#rrggbbaa", "rgb(r, g, b)" or
// "rgba(r, g, b, a)" where a is in [0, 1].
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFuncColor(s)
	}
	return Color{}, fmt.Errorf("bloomtree: unrecognized color %q", s)
}

func parseHexColor(h string) (Color, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("bloomtree: bad hex color %q", "#"+h)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("bloomtree: bad hex color %q: %w", "#"+h, err)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

func parseFuncColor(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return Color{}, fmt.Errorf("bloomtree: bad color %q", s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("bloomtree: bad color %q", s)
	}
	var ch [4]float64
	ch[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("bloomtree: bad color %q: %w", s, err)
		}
		if i < 3 {
			f /= 255
		}
		ch[i] = f
	}
	return Color{ch[0], ch[1], ch[2], ch[3]}, nil
}

// TextAlign selects horizontal text alignment relative to the anchor point.
type TextAlign uint8

const (
	TextAlignLeft   TextAlign = iota // anchor is the left edge
	TextAlignCenter                  // anchor is the horizontal center
	TextAlignRight                   // anchor is the right edge
)

// TextStyle describes how FillText renders a string.
type TextStyle struct {
	// Size is the font size in surface units before the current transform.
	Size  float64
	Align TextAlign
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
