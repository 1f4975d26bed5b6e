package render

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/physics"
)

var (
	// ErrUnevenSlices is returned when the screen width does not divide by the worker count
	ErrUnevenSlices = errors.New("render: screen width must divide evenly by worker count")

	// ErrPipelineClosed is returned by RenderFrame after Shutdown
	ErrPipelineClosed = errors.New("render: pipeline closed")
)

// State is the frame state machine
type State int32

const (
	StateIdle State = iota
	StateRendering
	StateFrameComplete
	StateBufferFlushed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRendering:
		return "AllWorkersRendering"
	case StateFrameComplete:
		return "FrameComplete"
	case StateBufferFlushed:
		return "BufferFlushed"
	default:
		return "Unknown"
	}
}

// Sink consumes finished frames
type Sink interface {
	Draw(f Frame) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(f Frame) error

func (fn SinkFunc) Draw(f Frame) error { return fn(f) }

// PipelineConfig sizes the worker pool
type PipelineConfig struct {
	Width   int
	Height  int
	Workers int
	Shader  *Shader
	Sink    Sink // Optional, receives each frame before the background is cleared
}

// Pipeline is a fixed pool of workers, each owning a contiguous slice of columns
// A frame is released to all workers, flushed only after every worker finished,
// and the next frame is not released until the background is cleared
type Pipeline struct {
	world  *physics.World
	shader *Shader
	sink   Sink
	buf    *FrameBuffer
	width  int
	height int
	cols   int // Columns per worker

	camera   atomic.Pointer[Camera]
	rays     []physics.Ray // Grid of the frame in flight, written before release
	state    atomic.Int32
	finished []atomic.Bool
	release  []chan struct{}
	done     chan int

	mu     sync.Mutex // serializes RenderFrame and Shutdown
	closed bool
	cancel context.CancelFunc
	group  *errgroup.Group
	gctx   context.Context

	// trace observes every cell write, test hook
	trace func(worker, x, y int)
}

// NewPipeline validates the slice layout and starts the workers
func NewPipeline(world *physics.World, cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("render: screen size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Workers <= 0 || cfg.Width%cfg.Workers != 0 {
		return nil, errors.Wrapf(ErrUnevenSlices, "width %d, workers %d", cfg.Width, cfg.Workers)
	}
	if cfg.Shader == nil {
		return nil, errors.New("render: nil shader")
	}

	p := &Pipeline{
		world:    world,
		shader:   cfg.Shader,
		sink:     cfg.Sink,
		buf:      NewFrameBuffer(cfg.Width, cfg.Height, cfg.Shader.Background()),
		width:    cfg.Width,
		height:   cfg.Height,
		cols:     cfg.Width / cfg.Workers,
		finished: make([]atomic.Bool, cfg.Workers),
		release:  make([]chan struct{}, cfg.Workers),
		done:     make(chan int, cfg.Workers),
	}
	p.start(cfg.Workers)
	return p, nil
}

func (p *Pipeline) start(workers int) {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.group, p.gctx = errgroup.WithContext(ctx)

	for i := 0; i < workers; i++ {
		p.release[i] = make(chan struct{}, 1)
		p.group.Go(func() error {
			return p.worker(i)
		})
	}
	log.Printf("render: %d workers started, %d columns each", workers, p.cols)
}

// Workers returns the pool size
func (p *Pipeline) Workers() int { return len(p.release) }

// State returns the current frame state
func (p *Pipeline) State() State { return State(p.state.Load()) }

// SetCamera swaps the camera used by subsequent frames, nil blanks the output
func (p *Pipeline) SetCamera(c *Camera) error {
	if c != nil && (c.Width() != p.width || c.Height() != p.height) {
		return errors.Errorf("render: camera %dx%d does not match screen %dx%d",
			c.Width(), c.Height(), p.width, p.height)
	}
	p.camera.Store(c)
	return nil
}

func (p *Pipeline) worker(id int) error {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	for {
		select {
		case <-p.gctx.Done():
			return nil
		case <-p.release[id]:
		}

		p.renderSlice(id)
		p.finished[id].Store(true)

		select {
		case <-p.gctx.Done():
			return nil
		case p.done <- id:
		}
	}
}

// renderSlice writes every cell of the worker's columns exactly once
func (p *Pipeline) renderSlice(id int) {
	x0 := id * p.cols
	x1 := x0 + p.cols
	bg := p.shader.Background()

	rays := p.rays

	for y := 0; y < p.height; y++ {
		for x := x0; x < x1; x++ {
			cell := bg
			if rays != nil {
				if hit, ok := p.world.Raycast(rays[y*p.width+x]); ok {
					cell = p.shader.Shade(hit)
				}
			}
			p.buf.Set(x, y, cell)
			if p.trace != nil {
				p.trace(id, x, y)
			}
		}
	}
}

// RenderFrame runs one frame: release all workers, wait for all, snapshot and
// flush, clear the background, reset flags
// A released frame always completes; ctx is checked before release only
func (p *Pipeline) RenderFrame(ctx context.Context) (Frame, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Frame{}, ErrPipelineClosed
	}
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}

	// One grid per frame so every slice renders the same pose
	p.rays = nil
	if cam := p.camera.Load(); cam != nil {
		p.rays = cam.Rays()
	}

	p.state.Store(int32(StateRendering))
	for _, ch := range p.release {
		ch <- struct{}{}
	}

	for range p.release {
		select {
		case <-p.done:
		case <-p.gctx.Done():
			p.state.Store(int32(StateIdle))
			return Frame{}, ErrPipelineClosed
		}
	}
	for i := range p.finished {
		if !p.finished[i].Load() {
			panic("render: frame completed with unfinished worker")
		}
	}
	p.state.Store(int32(StateFrameComplete))

	frame := p.buf.Snapshot()
	var sinkErr error
	if p.sink != nil {
		sinkErr = p.sink.Draw(frame)
	}
	p.state.Store(int32(StateBufferFlushed))

	p.buf.Clear(p.shader.Background())
	for i := range p.finished {
		p.finished[i].Store(false)
	}
	p.state.Store(int32(StateIdle))

	if sinkErr != nil {
		return frame, errors.Wrap(sinkErr, "render: sink")
	}
	return frame, nil
}

// Shutdown stops the workers and waits for them to exit
// Safe to call more than once
func (p *Pipeline) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.cancel()
	err := p.group.Wait()
	p.state.Store(int32(StateIdle))
	log.Printf("render: workers stopped")
	return err
}
