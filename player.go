package bloomtree

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// RunConfig holds optional parameters for Run.
type RunConfig struct {
	// Title sets the window title.
	Title string
	// ShowFPS draws an FPS/TPS counter in the top-left corner.
	ShowFPS bool
	// Debug logs stage transitions to stderr.
	Debug bool
}

// Run opens a window sized to cfg.Canvas and plays the show until the window
// is closed. It returns the first error from the show or the game loop.
func Run(cfg Config, rc RunConfig) error {
	show, err := NewShow(cfg)
	if err != nil {
		return err
	}
	show.SetDebugMode(rc.Debug)
	p, err := newPlayer(show, rc.ShowFPS)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.sched.Start(ctx, show.Run)

	title := rc.Title
	if title == "" {
		title = "bloomtree"
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(cfg.Canvas.Width, cfg.Canvas.Height)
	return ebiten.RunGame(p)
}

// player drives a Show from ebiten's game loop. The sequencer goroutine only
// runs inside sched.Step, so Update and Draw never race with it.
type player struct {
	show  *Show
	sched *FrameScheduler

	canvas      *ebiten.Image
	backdrop    *ebiten.Image
	backdropSrc image.Image
	face        *text.GoTextFace
	ascent      float64
	touches     []ebiten.TouchID
	showFPS     bool
}

var _ ebiten.Game = (*player)(nil)

func newPlayer(show *Show, showFPS bool) (*player, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("bloomtree: failed to parse TTF data: %w", err)
	}
	face := &text.GoTextFace{Source: src, Size: show.Config.Letter.Size}
	cc := show.Config.Canvas
	return &player{
		show:    show,
		sched:   NewFrameScheduler(),
		canvas:  ebiten.NewImage(cc.Width, cc.Height),
		face:    face,
		ascent:  face.Metrics().HAscent,
		showFPS: showFPS,
	}, nil
}

func (p *player) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.show.Click(float64(x), float64(y))
	}
	p.touches = inpututil.AppendJustPressedTouchIDs(p.touches[:0])
	for _, id := range p.touches {
		x, y := ebiten.TouchPosition(id)
		p.show.Click(float64(x), float64(y))
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	if err := p.sched.Step(dt); err != nil {
		return err
	}
	p.show.Advance(dt)
	return nil
}

func (p *player) Draw(screen *ebiten.Image) {
	cc := p.show.Config.Canvas
	screen.Fill(cc.Page)

	if img := p.show.Backdrop.Image(); img != nil {
		if img != p.backdropSrc {
			p.backdrop = ebiten.NewImageFromImage(img)
			p.backdropSrc = img
		}
		screen.DrawImage(p.backdrop, nil)
	}
	if bg, ok := p.show.Backdrop.Background(); ok {
		vector.DrawFilledRect(screen, 0, 0, float32(cc.Width), float32(cc.Height), bg, false)
	}

	p.canvas.WritePixels(p.show.Canvas.Image().Pix)
	screen.DrawImage(p.canvas, nil)

	p.drawLetter(screen)

	if p.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (p *player) drawLetter(screen *ebiten.Image) {
	lc := p.show.Config.Letter
	lines := p.show.LetterLines(func(s string) float64 { return text.Advance(s, p.face) })
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(lc.X, lc.Y+float64(i)*lc.Size*letterLineSpacing-p.ascent)
		op.ColorScale.ScaleWithColor(lc.Color)
		text.Draw(screen, line, p.face, op)
	}
}

func (p *player) Layout(_, _ int) (int, int) {
	cc := p.show.Config.Canvas
	return cc.Width, cc.Height
}
