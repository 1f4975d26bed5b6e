package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/render"
)

type fakeRenderer struct {
	frames atomic.Int32
	err    error
}

func (f *fakeRenderer) RenderFrame(ctx context.Context) (render.Frame, error) {
	if f.err != nil {
		return render.Frame{}, f.err
	}
	f.frames.Add(1)
	return render.Frame{Width: 1, Height: 1, Cells: []render.Cell{0}}, nil
}

func TestNewLoop_InvalidFPS(t *testing.T) {
	if _, err := NewLoop(LoopConfig{FPS: 0}); err == nil {
		t.Errorf("Expected error for zero fps")
	}
}

func TestLoop_TicksThenRenders(t *testing.T) {
	r := &fakeRenderer{}
	var order []string
	var frames atomic.Int32

	l, err := NewLoop(LoopConfig{
		FPS:      200,
		Renderer: r,
		OnFrame: func(render.Frame) {
			order = append(order, "frame")
			frames.Add(1)
		},
	})
	if err != nil {
		t.Fatalf("NewLoop failed: %v", err)
	}
	l.OnTick(func(time.Duration) { order = append(order, "tick") })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	waitFor(t, func() bool { return frames.Load() >= 3 })
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned %v", err)
	}

	if l.Ticks() < 3 || l.Frames() < 3 {
		t.Errorf("Expected at least 3 ticks and frames, got %d and %d", l.Ticks(), l.Frames())
	}
	for i := 0; i+1 < len(order); i += 2 {
		if order[i] != "tick" || order[i+1] != "frame" {
			t.Fatalf("Expected tick before frame, got %v", order)
		}
	}
}

func TestLoop_StopsOnClosedPipeline(t *testing.T) {
	l, err := NewLoop(LoopConfig{FPS: 200, Renderer: &fakeRenderer{err: render.ErrPipelineClosed}})
	if err != nil {
		t.Fatalf("NewLoop failed: %v", err)
	}

	err = l.Run(context.Background())
	if errors.Cause(err) != render.ErrPipelineClosed {
		t.Errorf("Expected ErrPipelineClosed, got %v", err)
	}
}

func TestLoop_RejectsConcurrentRun(t *testing.T) {
	l, _ := NewLoop(LoopConfig{FPS: 100})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	waitFor(t, func() bool { return l.Ticks() > 0 })
	if err := l.Run(ctx); err == nil {
		t.Errorf("Expected second Run to fail")
	}
	cancel()
	<-done
}
