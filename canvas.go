package bloomtree

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// canvasState is the part of the canvas pushed by Save.
type canvasState struct {
	m     affine
	alpha float64
}

// Canvas is a software Surface backed by a premultiplied *image.RGBA.
// Shapes are rasterized with anti-aliasing by golang.org/x/image/vector and
// composited source-over. A Canvas is not safe for concurrent use.
type Canvas struct {
	img   *image.RGBA
	ras   *vector.Rasterizer
	state canvasState
	stack []canvasState
	fonts *fontCache

	debugOut io.Writer
}

var _ Surface = (*Canvas)(nil)

// NewCanvas creates a transparent w×h canvas.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("bloomtree: canvas size %dx%d", w, h)
	}
	f, err := loadDefaultFont()
	if err != nil {
		return nil, err
	}
	return &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		ras:   vector.NewRasterizer(w, h),
		state: canvasState{m: identityTransform, alpha: 1},
		fonts: newFontCache(f),
	}, nil
}

// SetDebugOutput sets where non-fatal drawing problems are reported. A nil
// writer, the default, discards them.
func (c *Canvas) SetDebugOutput(w io.Writer) { c.debugOut = w }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.img.Rect.Dx() }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.img.Rect.Dy() }

// Image returns the live backing image. The pixels are premultiplied, which
// is what ebiten's WritePixels expects.
func (c *Canvas) Image() *image.RGBA { return c.img }

// Save pushes the current transform and alpha.
func (c *Canvas) Save() { c.stack = append(c.stack, c.state) }

// Restore pops the state pushed by the matching Save. An unbalanced Restore
// is a no-op, as on an HTML canvas.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(x, y float64) { c.state.m = c.state.m.translated(x, y) }
func (c *Canvas) Scale(sx, sy float64)   { c.state.m = c.state.m.scaled(sx, sy) }
func (c *Canvas) Rotate(radians float64) { c.state.m = c.state.m.rotated(radians) }

// SetAlpha sets the global alpha applied to every fill. Values are clamped
// to [0, 1].
func (c *Canvas) SetAlpha(a float64) { c.state.alpha = clamp01(a) }

// FillPolygon fills the closed polygon through points. Fewer than three
// points draw nothing.
func (c *Canvas) FillPolygon(points []Vec2, col Color) {
	if len(points) < 3 {
		return
	}
	c.ras.Reset(c.Width(), c.Height())
	x, y := c.state.m.apply(points[0].X, points[0].Y)
	c.ras.MoveTo(float32(x), float32(y))
	for _, p := range points[1:] {
		x, y = c.state.m.apply(p.X, p.Y)
		c.ras.LineTo(float32(x), float32(y))
	}
	c.ras.ClosePath()
	c.ras.Draw(c.img, c.img.Bounds(), image.NewUniform(col.premultiplied(c.state.alpha)), image.Point{})
}

// FillCircle fills a disc, tessellated finely enough for its device radius.
func (c *Canvas) FillCircle(center Vec2, radius float64, col Color) {
	if radius <= 0 {
		return
	}
	c.FillPolygon(arcPoints(center, radius, 0, 2*math.Pi, circleSegments(radius*c.state.m.uniformScale())), col)
}

// StrokeLine strokes from→to with round caps. A zero-length segment draws a
// dot of the stroke width.
func (c *Canvas) StrokeLine(from, to Vec2, width float64, col Color) {
	if width <= 0 {
		return
	}
	r := width / 2
	d := to.Sub(from)
	angle := math.Atan2(d.Y, d.X)
	n := circleSegments(r*c.state.m.uniformScale()) / 2
	pts := arcPoints(to, r, angle-math.Pi/2, angle+math.Pi/2, n)
	pts = append(pts, arcPoints(from, r, angle+math.Pi/2, angle+3*math.Pi/2, n)...)
	c.FillPolygon(pts, col)
}

// FillText draws s with its baseline at (x, y). The font size is scaled by
// the transform's average scale; rotation is not applied to glyphs.
func (c *Canvas) FillText(s string, x, y float64, style TextStyle, col Color) {
	if s == "" {
		return
	}
	size := style.Size * c.state.m.uniformScale()
	if size < 0.5 {
		return
	}
	face, err := c.fonts.face(size)
	if err != nil {
		debugTextError(c.debugOut, s, err)
		return
	}
	dx, dy := c.state.m.apply(x, y)
	drawString(c.img, face, s, dx, dy, style.Align, col.premultiplied(c.state.alpha))
}

// ClearRect clears the device-space bounding box of the transformed
// rectangle. Partially covered pixels are cleared.
func (c *Canvas) ClearRect(x, y, w, h float64) {
	minX, minY, maxX, maxY := c.state.m.bounds(x, y, w, h)
	r := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	draw.Draw(c.img, r.Intersect(c.img.Rect), image.Transparent, image.Point{}, draw.Src)
}

// Clear resets the whole canvas to transparent black.
func (c *Canvas) Clear() {
	clear(c.img.Pix)
}

// PixelAt returns the premultiplied pixel at (x, y).
func (c *Canvas) PixelAt(x, y int) color.RGBA {
	return c.img.RGBAAt(x, y)
}

// ReadRegion copies the w×h block at (x, y) into a new image.
func (c *Canvas) ReadRegion(x, y, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	draw.Draw(out, out.Rect, c.img, image.Pt(x, y), draw.Src)
	return out
}

// WriteRegion replaces the pixels under img placed at (x, y).
func (c *Canvas) WriteRegion(img *image.RGBA, x, y int) {
	r := image.Rect(x, y, x+img.Rect.Dx(), y+img.Rect.Dy())
	draw.Draw(c.img, r, img, img.Rect.Min, draw.Src)
}

// Export returns a copy of the raster.
func (c *Canvas) Export() *image.RGBA {
	out := image.NewRGBA(c.img.Rect)
	copy(out.Pix, c.img.Pix)
	return out
}

// DataURL encodes the raster as a base64 PNG data URL, ready to embed as a
// backdrop image.
func (c *Canvas) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return "", fmt.Errorf("bloomtree: encode canvas: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// circleSegments picks a tessellation for a circle of device radius r.
func circleSegments(r float64) int {
	return min(max(int(math.Ceil(r*1.5)), 16), 256)
}

// arcPoints returns n+1 points on the arc from a0 to a1 (clockwise, y down).
func arcPoints(center Vec2, r, a0, a1 float64, n int) []Vec2 {
	n = max(n, 1)
	pts := make([]Vec2, n+1)
	step := (a1 - a0) / float64(n)
	for i := range pts {
		sin, cos := math.Sincos(a0 + float64(i)*step)
		pts[i] = Vec2{center.X + r*cos, center.Y + r*sin}
	}
	return pts
}
