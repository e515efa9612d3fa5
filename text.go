package bloomtree

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// faceQuantum is the size granularity of cached faces (quarter units).
const faceQuantum = 4

// maxFaceSize is the largest face, in pixels, the cache will build.
const maxFaceSize = 4096

var (
	defaultFontOnce sync.Once
	defaultFont     *opentype.Font
	defaultFontErr  error
)

// loadDefaultFont parses the embedded Go Regular font once.
func loadDefaultFont() (*opentype.Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = opentype.Parse(goregular.TTF)
		if defaultFontErr != nil {
			defaultFontErr = fmt.Errorf("bloomtree: parse default font: %w", defaultFontErr)
		}
	})
	return defaultFont, defaultFontErr
}

// fontCache hands out faces of one font at arbitrary sizes, creating each
// quantized size once.
type fontCache struct {
	font  *opentype.Font
	faces map[int]font.Face
}

func newFontCache(f *opentype.Font) *fontCache {
	return &fontCache{font: f, faces: make(map[int]font.Face)}
}

// face returns a face close to size. Sizes below one quantum round up to it;
// sizes above maxFaceSize or NaN are rejected.
func (fc *fontCache) face(size float64) (font.Face, error) {
	if !(size <= maxFaceSize) {
		return nil, fmt.Errorf("bloomtree: font face %.2f exceeds %d", size, maxFaceSize)
	}
	key := max(int(math.Round(size*faceQuantum)), 1)
	if f, ok := fc.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(fc.font, &opentype.FaceOptions{
		Size:    float64(key) / faceQuantum,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("bloomtree: font face %.2f: %w", size, err)
	}
	fc.faces[key] = f
	return f, nil
}

// measureString returns the advance width of s in pixels.
func measureString(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64
}

// drawString draws s with its baseline at y, aligned around x.
func drawString(dst draw.Image, face font.Face, s string, x, y float64, align TextAlign, c color.RGBA) {
	switch align {
	case TextAlignCenter:
		x -= measureString(face, s) / 2
	case TextAlignRight:
		x -= measureString(face, s)
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	d.DrawString(s)
}
