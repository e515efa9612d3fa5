package bloomtree

import (
	"image"
	"image/color"
)

// Surface is the drawing-surface contract the show paints through.
//
// Transform and alpha state follow the HTML canvas model: Translate, Scale and
// Rotate compose onto the current transform in local space, SetAlpha sets the
// global alpha, and Save/Restore push and pop both. Pixel operations
// (ClearRect aside) work in device pixels and ignore the transform.
type Surface interface {
	Width() int
	Height() int

	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)
	Rotate(radians float64)
	SetAlpha(a float64)

	// FillPolygon fills the closed polygon through points.
	FillPolygon(points []Vec2, c Color)
	// FillCircle fills a disc.
	FillCircle(center Vec2, radius float64, c Color)
	// StrokeLine strokes a segment with round caps.
	StrokeLine(from, to Vec2, width float64, c Color)
	// FillText draws s with its baseline at y.
	FillText(s string, x, y float64, style TextStyle, c Color)
	// ClearRect resets the pixels under the transformed rectangle to
	// transparent black.
	ClearRect(x, y, w, h float64)

	// PixelAt returns the premultiplied pixel at (x, y). Out-of-bounds pixels
	// are transparent.
	PixelAt(x, y int) color.RGBA
	// ReadRegion copies a w×h block whose top-left is (x, y) into a new
	// image with origin (0, 0). Out-of-bounds pixels are transparent.
	ReadRegion(x, y, w, h int) *image.RGBA
	// WriteRegion replaces the pixels under img placed at (x, y), without
	// blending.
	WriteRegion(img *image.RGBA, x, y int)
	// Export returns a copy of the whole raster.
	Export() *image.RGBA
}
