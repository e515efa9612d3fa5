package bloomtree

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// Stage is one sequential phase of the show.
type Stage uint8

const (
	StageAwaitTrigger     Stage = iota // waiting for a click on the seed
	StageShrinkSeed                    // glyph shrinks toward the floor scale
	StageRiseSeed                      // marker falls to the ground, footer widens
	StageGrowTree                      // branches grow until none is active
	StageBloomFlowers                  // reservoir blooms flower in batches
	StageSlideComposition              // the tree slides to its final place
	StageFadeBackground                // surface is baked into the backdrop
	StageRevealText                    // the letter starts typing
	StageJumpLoop                      // flight blooms drift forever
)

var stageNames = [...]string{
	StageAwaitTrigger:     "await-trigger",
	StageShrinkSeed:       "shrink-seed",
	StageRiseSeed:         "rise-seed",
	StageGrowTree:         "grow-tree",
	StageBloomFlowers:     "bloom-flowers",
	StageSlideComposition: "slide-composition",
	StageFadeBackground:   "fade-background",
	StageRevealText:       "reveal-text",
	StageJumpLoop:         "jump-loop",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", s)
}

// ParseStage returns the stage with the given String form.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("bloomtree: unknown stage %q", name)
}

// Snapshot names used by the slide.
const (
	snapshotSlide = "slide"
	snapshotScene = "scene"
)

// Sequencer chains the show's stages. Each stage repeats "one tick, then
// suspend" until its component reports completion, and the next stage only
// starts once the previous one has drained.
type Sequencer struct {
	tree     *Tree
	surface  Surface
	timing   TimingConfig
	slide    SlideConfig
	batch    int
	letter   LetterConfig
	backdrop *Backdrop
	reveal   TextRevealer

	stage   Stage
	ticks   int
	elapsed time.Duration
	clicks  []Vec2

	debug    bool
	debugOut io.Writer

	// OnStage, if set, is called after every stage transition.
	OnStage func(from, to Stage)
}

// NewSequencer wires a sequencer for tree. backdrop receives the baked frame
// and reveal, which may be nil, receives the letter.
func NewSequencer(tree *Tree, cfg Config, backdrop *Backdrop, reveal TextRevealer) *Sequencer {
	return &Sequencer{
		tree:     tree,
		surface:  tree.surface,
		timing:   cfg.Timing,
		slide:    cfg.Slide,
		batch:    cfg.Bloom.Batch,
		letter:   cfg.Letter,
		backdrop: backdrop,
		reveal:   reveal,
		debugOut: os.Stderr,
	}
}

// Stage returns the current stage.
func (s *Sequencer) Stage() Stage { return s.stage }

// Ticks returns the number of ticks performed in the current stage.
func (s *Sequencer) Ticks() int { return s.ticks }

// Elapsed returns the scheduled time spent in the current stage.
func (s *Sequencer) Elapsed() time.Duration { return s.elapsed }

// Click delivers a pointer press in surface coordinates. Only a press that
// lands on the seed while awaiting the trigger has any effect.
func (s *Sequencer) Click(x, y float64) {
	if s.stage == StageAwaitTrigger {
		s.clicks = append(s.clicks, Vec2{x, y})
	}
}

// SetDebugMode enables stage transition logging.
func (s *Sequencer) SetDebugMode(enabled bool) { s.debug = enabled }

// SetDebugOutput redirects debug logging, which defaults to stderr.
func (s *Sequencer) SetDebugOutput(w io.Writer) { s.debugOut = w }

// Run plays the show. It only returns on a scheduler or snapshot error,
// including cancellation of ctx; otherwise the final stage loops forever.
func (s *Sequencer) Run(ctx context.Context, sched Scheduler) error {
	t := s.tree
	seed := t.Seed()

	seed.Draw()
	if err := s.awaitTrigger(ctx, sched); err != nil {
		return err
	}

	s.enter(StageShrinkSeed)
	for seed.CanScale() {
		seed.Shrink(s.timing.ScaleFactor)
		if err := s.tick(ctx, sched, s.timing.TickDelay); err != nil {
			return err
		}
	}

	s.enter(StageRiseSeed)
	for seed.CanMove() {
		seed.Fall(0, s.timing.SeedFallSpeed)
		t.Footer().Draw()
		if err := s.tick(ctx, sched, s.timing.TickDelay); err != nil {
			return err
		}
	}

	s.enter(StageGrowTree)
	for t.CanGrow() {
		t.Grow()
		if err := s.tick(ctx, sched, s.timing.TickDelay); err != nil {
			return err
		}
	}

	s.enter(StageBloomFlowers)
	for t.CanFlower() {
		t.Flower(s.batch)
		if err := s.tick(ctx, sched, s.timing.BloomDelay); err != nil {
			return err
		}
	}

	s.enter(StageSlideComposition)
	if err := s.slideComposition(ctx, sched); err != nil {
		return err
	}

	s.enter(StageFadeBackground)
	s.backdrop.Bake(s.surface.Export(), s.timing.FadeDelay)
	if err := s.tick(ctx, sched, s.timing.FadeDelay); err != nil {
		return err
	}
	s.backdrop.RemoveBackground()

	s.enter(StageRevealText)
	if s.reveal != nil {
		s.reveal.Reveal(s.letter.Text(), s.letter.Rate)
	}

	s.enter(StageJumpLoop)
	w, h := float64(s.surface.Width()), float64(s.surface.Height())
	for {
		s.surface.ClearRect(0, 0, w, h)
		if err := t.DrawSnapshot(snapshotScene); err != nil {
			return err
		}
		t.Jump()
		t.Footer().Draw()
		if err := s.tick(ctx, sched, s.timing.JumpDelay); err != nil {
			return err
		}
		if err := sched.NextFrame(ctx); err != nil {
			return err
		}
	}
}

// awaitTrigger polls queued clicks once per frame until one hits the seed.
func (s *Sequencer) awaitTrigger(ctx context.Context, sched Scheduler) error {
	s.stage = StageAwaitTrigger
	for {
		for len(s.clicks) > 0 {
			p := s.clicks[0]
			s.clicks = s.clicks[1:]
			if s.tree.Seed().Hit(p.X, p.Y) {
				s.clicks = nil
				return nil
			}
		}
		if err := sched.NextFrame(ctx); err != nil {
			return err
		}
	}
}

// slideComposition freezes the tree area, slides it to the target and
// freezes the result for the jump loop.
func (s *Sequencer) slideComposition(ctx context.Context, sched Scheduler) error {
	t := s.tree
	sc := s.slide
	h := s.surface.Height()
	t.Snapshot(snapshotSlide, int(sc.SourceX), 0, sc.Width, h)
	for {
		moving, err := t.MoveSnapshot(snapshotSlide, sc.TargetX, 0)
		if err != nil {
			return err
		}
		t.Footer().Draw()
		if !moving {
			break
		}
		if err := s.tick(ctx, sched, s.timing.TickDelay); err != nil {
			return err
		}
	}
	t.Snapshot(snapshotScene, int(sc.TargetX), 0, sc.Width, h)
	return nil
}

func (s *Sequencer) tick(ctx context.Context, sched Scheduler, d time.Duration) error {
	s.ticks++
	s.elapsed += d
	return sched.Sleep(ctx, d)
}

func (s *Sequencer) enter(to Stage) {
	from := s.stage
	if s.debug {
		s.debugLog(from, to)
	}
	s.stage = to
	s.ticks = 0
	s.elapsed = 0
	if s.OnStage != nil {
		s.OnStage(from, to)
	}
}
