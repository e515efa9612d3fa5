package bloomtree

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned by a VirtualScheduler once its frame limit is hit.
var ErrStopped = errors.New("bloomtree: scheduler stopped")

// Scheduler suspends the running stage between ticks. Implementations must
// not resume a task before the previous suspension has completed.
type Scheduler interface {
	// Sleep suspends the caller for d.
	Sleep(ctx context.Context, d time.Duration) error
	// NextFrame suspends the caller until the next display refresh.
	NextFrame(ctx context.Context) error
}

// VirtualScheduler resumes immediately, advancing a virtual clock instead of
// waiting. It is used for tests and offscreen rendering.
type VirtualScheduler struct {
	// Now is the virtual time elapsed so far.
	Now time.Duration
	// Frames counts NextFrame calls.
	Frames int
	// FrameTime is added to Now by every NextFrame.
	FrameTime time.Duration
	// MaxFrames stops the task with ErrStopped once Frames reaches it.
	// Zero means no limit.
	MaxFrames int
	// OnSuspend, if set, runs at every suspension after the clock advanced.
	// A non-nil error is returned to the suspended task.
	OnSuspend func(now time.Duration, frame bool) error
}

var _ Scheduler = (*VirtualScheduler)(nil)

// Sleep advances the virtual clock by d.
func (v *VirtualScheduler) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.Now += d
	if v.OnSuspend != nil {
		return v.OnSuspend(v.Now, false)
	}
	return nil
}

// NextFrame counts a frame and advances the clock by FrameTime.
func (v *VirtualScheduler) NextFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.Frames++
	v.Now += v.FrameTime
	if v.OnSuspend != nil {
		if err := v.OnSuspend(v.Now, true); err != nil {
			return err
		}
	}
	if v.MaxFrames > 0 && v.Frames >= v.MaxFrames {
		return ErrStopped
	}
	return nil
}

// maxTicksPerStep bounds how many suspensions one FrameScheduler.Step may
// resume.
const maxTicksPerStep = 64

type yieldMsg struct {
	d     time.Duration
	frame bool
}

// FrameScheduler runs a task in lockstep with a frame loop such as ebiten's
// Update. The task runs on its own goroutine but only ever executes while
// Step is blocked waiting for it, so the two never touch shared state at the
// same time.
type FrameScheduler struct {
	resume  chan struct{}
	yield   chan yieldMsg
	done    chan struct{}
	err     error
	pending time.Duration
	started bool
}

var _ Scheduler = (*FrameScheduler)(nil)

// NewFrameScheduler creates an idle scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{
		resume: make(chan struct{}),
		yield:  make(chan yieldMsg),
		done:   make(chan struct{}),
	}
}

// Start launches task. The task does not run until the first Step.
func (f *FrameScheduler) Start(ctx context.Context, task func(context.Context, Scheduler) error) {
	if f.started {
		panic("bloomtree: FrameScheduler started twice")
	}
	f.started = true
	go func() {
		defer close(f.done)
		select {
		case <-f.resume:
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		}
		f.err = task(ctx, f)
	}()
}

// Done reports whether the task has returned.
func (f *FrameScheduler) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Step consumes dt of frame time, resuming the task for every suspension
// that expires within it. It returns the task's error once it has returned.
func (f *FrameScheduler) Step(dt time.Duration) error {
	if !f.started {
		return nil
	}
	f.pending -= dt
	for range maxTicksPerStep {
		if f.pending > 0 {
			return nil
		}
		select {
		case f.resume <- struct{}{}:
		case <-f.done:
			return f.err
		}
		select {
		case msg := <-f.yield:
			if msg.frame {
				f.pending = 0
				return nil
			}
			f.pending += msg.d
		case <-f.done:
			return f.err
		}
	}
	// Time the cap left unpaid is dropped rather than carried into later
	// frames.
	f.pending = max(f.pending, 0)
	return nil
}

// Sleep parks the task until Step has consumed d.
func (f *FrameScheduler) Sleep(ctx context.Context, d time.Duration) error {
	return f.park(ctx, yieldMsg{d: d})
}

// NextFrame parks the task until the next Step.
func (f *FrameScheduler) NextFrame(ctx context.Context) error {
	return f.park(ctx, yieldMsg{frame: true})
}

func (f *FrameScheduler) park(ctx context.Context, msg yieldMsg) error {
	select {
	case f.yield <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-f.resume:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
