package bloomtree

import (
	"image"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Backdrop is what sits beneath the surface: the surface's own background
// color and, once baked, a frozen image of an earlier frame. Baking hands
// static pixels off from the surface to the backdrop so later frames only
// need to repaint what moves.
type Backdrop struct {
	image      image.Image
	background Color
	alpha      float64
	fade       *gween.Tween
	removed    bool
}

// NewBackdrop returns a backdrop showing only the background color.
func NewBackdrop(background Color) *Backdrop {
	return &Backdrop{background: background, alpha: 1}
}

// Bake installs img as the backdrop image and fades the background color
// out over d.
func (b *Backdrop) Bake(img image.Image, d time.Duration) {
	b.image = img
	if d <= 0 {
		b.alpha = 0
		b.fade = nil
		return
	}
	b.fade = gween.New(float32(b.alpha), 0, float32(d.Seconds()), ease.OutQuad)
}

// RemoveBackground drops the background color for good.
func (b *Backdrop) RemoveBackground() {
	b.removed = true
	b.fade = nil
	b.alpha = 0
}

// Update advances the background fade by dt.
func (b *Backdrop) Update(dt time.Duration) {
	if b.fade == nil {
		return
	}
	v, done := b.fade.Update(float32(dt.Seconds()))
	b.alpha = clamp01(float64(v))
	if done {
		b.fade = nil
	}
}

// Image returns the baked image, or nil before Bake.
func (b *Backdrop) Image() image.Image { return b.image }

// Background returns the background color with the fade applied, and
// whether it should be painted at all.
func (b *Backdrop) Background() (Color, bool) {
	if b.removed || b.alpha <= 0 {
		return Color{}, false
	}
	return b.background.WithAlpha(b.alpha), true
}
