package bloomtree

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewShowRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Bloom.Batch = 0
	if _, err := NewShow(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewShow err = %v, want ErrInvalidConfig", err)
	}
}

func TestNewShowDeterministicSeed(t *testing.T) {
	a, b := newTestShow(t), newTestShow(t)
	ra, rb := a.Tree.Reservoir(), b.Tree.Reservoir()
	if len(ra) != len(rb) {
		t.Fatalf("reservoir sizes %d != %d", len(ra), len(rb))
	}
	for i := range ra {
		if ra[i].Point != rb[i].Point || ra[i].Angle != rb[i].Angle {
			t.Fatalf("bloom %d differs with the same random seed", i)
		}
	}
}

func TestShowComposeLayers(t *testing.T) {
	show := newTestShow(t)
	cfg := show.Config

	img := show.Compose()
	bg := cfg.Canvas.Background.premultiplied(1)
	if got := img.RGBAAt(1, 1); got != bg {
		t.Errorf("corner before the show = %v, want background %v", got, bg)
	}

	sched := &VirtualScheduler{MaxFrames: 10, OnSuspend: clickSeedOnce(show)}
	if err := show.Run(context.Background(), sched); !errors.Is(err, ErrStopped) {
		t.Fatalf("Run err = %v", err)
	}
	show.Advance(time.Second)

	img = show.Compose()
	page := cfg.Canvas.Page.premultiplied(1)
	if got := img.RGBAAt(1, 1); got != page {
		t.Errorf("corner after the fade = %v, want page %v", got, page)
	}
	if got := img.RGBAAt(150, 199); got == page {
		t.Error("footer missing from the composed frame")
	}
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xff {
			t.Fatal("composed frame not opaque")
		}
	}
}

func TestShowLetterLines(t *testing.T) {
	show := newTestShow(t)
	measure := func(s string) float64 { return float64(len(s)) * 8 }
	if lines := show.LetterLines(measure); lines != nil {
		t.Errorf("lines before reveal: %q", lines)
	}
	show.Letter.Reveal(show.Config.Letter.Text(), time.Millisecond)
	show.Advance(time.Hour)
	lines := show.LetterLines(measure)
	if len(lines) < len(show.Config.Letter.Paragraphs) {
		t.Fatalf("%d lines for %d paragraphs", len(lines), len(show.Config.Letter.Paragraphs))
	}
	for _, l := range lines {
		if measure(l) > show.Config.Letter.Width && !isSingleWord(l) {
			t.Errorf("line %q wider than %v", l, show.Config.Letter.Width)
		}
	}
}

func isSingleWord(s string) bool {
	for _, r := range s {
		if r == ' ' {
			return false
		}
	}
	return true
}
