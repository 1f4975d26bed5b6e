package engine

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/render"
)

// FrameRenderer produces one frame per call
type FrameRenderer interface {
	RenderFrame(ctx context.Context) (render.Frame, error)
}

// TickFunc advances gameplay by dt
type TickFunc func(dt time.Duration)

// LoopConfig configures the master tick
type LoopConfig struct {
	FPS      int
	Renderer FrameRenderer // Optional
	OnFrame  func(f render.Frame)
}

// Loop paces gameplay ticks and frames on one goroutine
// Each tick runs every tick hook in registration order, then renders a frame
type Loop struct {
	interval time.Duration
	renderer FrameRenderer
	onFrame  func(f render.Frame)
	ticks    []TickFunc

	tickCount  atomic.Uint64
	frameCount atomic.Uint64
	running    atomic.Bool
}

// NewLoop creates a loop at the configured rate
func NewLoop(cfg LoopConfig) (*Loop, error) {
	if cfg.FPS <= 0 {
		return nil, errors.Errorf("engine: fps must be positive, got %d", cfg.FPS)
	}
	return &Loop{
		interval: time.Second / time.Duration(cfg.FPS),
		renderer: cfg.Renderer,
		onFrame:  cfg.OnFrame,
	}, nil
}

// OnTick registers a gameplay hook, must be called before Run
func (l *Loop) OnTick(fn TickFunc) {
	l.ticks = append(l.ticks, fn)
}

// Interval returns the tick period
func (l *Loop) Interval() time.Duration { return l.interval }

// Ticks returns the number of completed ticks
func (l *Loop) Ticks() uint64 { return l.tickCount.Load() }

// Frames returns the number of rendered frames
func (l *Loop) Frames() uint64 { return l.frameCount.Load() }

// Run ticks until ctx is done or rendering fails
// Deadlines advance by the interval; a loop that falls far behind resyncs instead of bursting
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.New("engine: loop already running")
	}
	defer l.running.Store(false)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	last := time.Now()
	deadline := last.Add(l.interval)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		if now.Before(deadline) {
			timer.Reset(deadline.Sub(now))
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil
			}
			continue
		}

		if err := l.step(ctx, now.Sub(last)); err != nil {
			return err
		}
		last = now

		deadline = deadline.Add(l.interval)
		if maxBehind := l.interval * 2; now.Sub(deadline) > maxBehind {
			deadline = now.Add(l.interval)
		}
	}
}

// step runs one tick and one frame
func (l *Loop) step(ctx context.Context, dt time.Duration) error {
	for _, fn := range l.ticks {
		fn(dt)
	}
	l.tickCount.Add(1)

	if l.renderer == nil {
		return nil
	}
	frame, err := l.renderer.RenderFrame(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil
	case errors.Is(err, render.ErrPipelineClosed):
		return err
	default:
		// Sink failures drop one frame, the loop keeps pacing
		log.Printf("engine: frame %d: %v", l.frameCount.Load(), err)
		return nil
	}
	l.frameCount.Add(1)
	if l.onFrame != nil {
		l.onFrame(frame)
	}
	return nil
}
