package bloomtree

import (
	"context"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"golang.org/x/image/draw"
)

// letterLineSpacing is the baseline distance of the letter in font sizes.
const letterLineSpacing = 1.5

// Show bundles everything one run of the animation needs: the surface the
// stages paint on, the tree of actors, the sequencer, and the host-side
// collaborators (backdrop and letter) that live outside the surface.
type Show struct {
	Config    Config
	Canvas    *Canvas
	Tree      *Tree
	Sequencer *Sequencer
	Backdrop  *Backdrop
	Letter    *Typewriter

	fonts    *fontCache
	debug    bool
	debugOut io.Writer
}

// NewShow validates cfg and builds a show ready to Run. A zero RandomSeed
// seeds the placement generator from the clock.
func NewShow(cfg Config) (*Show, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	canvas, err := NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height)
	if err != nil {
		return nil, err
	}
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	tree := NewTree(canvas, cfg, rng)
	backdrop := NewBackdrop(cfg.Canvas.Background)
	letter := &Typewriter{}
	s := &Show{
		Config:    cfg,
		Canvas:    canvas,
		Tree:      tree,
		Sequencer: NewSequencer(tree, cfg, backdrop, letter),
		Backdrop:  backdrop,
		Letter:    letter,
		fonts:     canvas.fonts,
		debugOut:  os.Stderr,
	}
	return s, nil
}

// SetDebugMode enables stage logging and drawing warnings, and reports
// suspicious configuration to the debug output.
func (s *Show) SetDebugMode(enabled bool) {
	s.Sequencer.SetDebugMode(enabled)
	s.debug = enabled
	if !enabled {
		s.Canvas.SetDebugOutput(nil)
		return
	}
	s.Canvas.SetDebugOutput(s.debugOut)
	debugCheckPlacement(s.debugOut, s.Tree)
	debugCheckBranchDepth(s.debugOut, s.Config.Branch.Specs)
}

// SetDebugOutput redirects debug logging, which defaults to stderr.
func (s *Show) SetDebugOutput(w io.Writer) {
	s.debugOut = w
	s.Sequencer.SetDebugOutput(w)
	if s.debug {
		s.Canvas.SetDebugOutput(w)
	}
}

// Run plays the show on sched. See Sequencer.Run.
func (s *Show) Run(ctx context.Context, sched Scheduler) error {
	return s.Sequencer.Run(ctx, sched)
}

// Click forwards a pointer press to the sequencer.
func (s *Show) Click(x, y float64) { s.Sequencer.Click(x, y) }

// Advance steps the backdrop fade and the letter by dt.
func (s *Show) Advance(dt time.Duration) {
	s.Backdrop.Update(dt)
	s.Letter.Advance(dt)
}

// LetterLines returns the visible part of the letter wrapped to the
// configured width with measure.
func (s *Show) LetterLines(measure func(string) float64) []string {
	if !s.Letter.Active() {
		return nil
	}
	return WrapLines(s.Letter.Visible(), s.Config.Letter.Width, measure)
}

// Compose flattens the page color, backdrop image, surface background,
// canvas and letter into a new opaque image the size of the canvas.
func (s *Show) Compose() *image.RGBA {
	out := image.NewRGBA(s.Canvas.Image().Rect)
	draw.Draw(out, out.Rect, image.NewUniform(s.Config.Canvas.Page), image.Point{}, draw.Src)
	if img := s.Backdrop.Image(); img != nil {
		draw.Draw(out, out.Rect, img, img.Bounds().Min, draw.Over)
	}
	if bg, ok := s.Backdrop.Background(); ok {
		draw.Draw(out, out.Rect, image.NewUniform(bg), image.Point{}, draw.Over)
	}
	draw.Draw(out, out.Rect, s.Canvas.Image(), image.Point{}, draw.Over)
	s.drawLetter(out)
	return out
}

func (s *Show) drawLetter(dst draw.Image) {
	lc := s.Config.Letter
	face, err := s.fonts.face(lc.Size)
	if err != nil {
		return
	}
	lines := s.LetterLines(func(str string) float64 { return measureString(face, str) })
	c := lc.Color.premultiplied(1)
	for i, line := range lines {
		y := lc.Y + float64(i)*lc.Size*letterLineSpacing
		drawString(dst, face, line, lc.X, y, TextAlignLeft, c)
	}
}
