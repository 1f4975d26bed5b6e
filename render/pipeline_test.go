package render

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
	"github.com/lixenwraith/vi-crawler/vmath"
)

func testShader() *Shader {
	return NewShader(ShaderConfig{
		Ramp:       parameter.GlyphRamp,
		Brightness: parameter.Brightness,
		Background: core.Indexed(core.PaletteBlack),
	})
}

// wallWorld places a large green wall filling the view of a camera at the origin
func wallWorld() *physics.World {
	w := physics.NewWorld(physics.DefaultWorldConfig(), nil)
	wall := physics.NewBox(physics.Options{Layers: physics.LayerEnvironment, Color: core.Indexed(core.PaletteGreen)})
	wall.SetTransform(vmath.V3(0, 0, -5), vmath.V3(100, 100, 1), 0)
	w.Add(wall)
	return w
}

func newTestPipeline(t *testing.T, world *physics.World, width, height, workers int, sink Sink) *Pipeline {
	t.Helper()
	p, err := NewPipeline(world, PipelineConfig{
		Width:   width,
		Height:  height,
		Workers: workers,
		Shader:  testShader(),
		Sink:    sink,
	})
	if err != nil {
		t.Fatalf("NewPipeline failed: %v", err)
	}
	t.Cleanup(func() { p.Shutdown() })
	return p
}

func TestNewPipeline_UnevenSlices(t *testing.T) {
	_, err := NewPipeline(wallWorld(), PipelineConfig{Width: 10, Height: 2, Workers: 3, Shader: testShader()})
	if errors.Cause(err) != ErrUnevenSlices {
		t.Errorf("Expected ErrUnevenSlices, got %v", err)
	}
}

func TestPipeline_EveryCellWrittenOnce(t *testing.T) {
	const width, height, workers = 16, 6, 4
	p := newTestPipeline(t, wallWorld(), width, height, workers, nil)

	cam, err := NewCamera(width, height, parameter.CameraFOV, parameter.RayMaxDistance)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	if err := p.SetCamera(cam); err != nil {
		t.Fatalf("SetCamera failed: %v", err)
	}

	writes := make([]atomic.Int32, width*height)
	owner := make([]atomic.Int32, width*height)
	p.trace = func(worker, x, y int) {
		writes[y*width+x].Add(1)
		owner[y*width+x].Store(int32(worker))
	}

	for frame := 1; frame <= 3; frame++ {
		f, err := p.RenderFrame(context.Background())
		if err != nil {
			t.Fatalf("RenderFrame failed: %v", err)
		}

		for i := range writes {
			if got := writes[i].Load(); got != int32(frame) {
				t.Fatalf("Frame %d cell %d: expected %d writes, got %d", frame, i, frame, got)
			}
			x := i % width
			if got := owner[i].Load(); got != int32(x/(width/workers)) {
				t.Fatalf("Cell %d written by worker %d outside its slice", i, got)
			}
		}

		for i, c := range f.Cells {
			if c.Color() != core.Indexed(core.PaletteGreen) {
				t.Fatalf("Frame %d cell %d: expected wall color, got %v", frame, i, c.Color())
			}
			if c.Glyph() == ' ' {
				t.Fatalf("Frame %d cell %d: expected a visible glyph", frame, i)
			}
		}
	}

	if p.State() != StateIdle {
		t.Errorf("Expected Idle after frame, got %v", p.State())
	}
}

func TestPipeline_CameraSwapMidFrame(t *testing.T) {
	const width, height, workers = 16, 4, 4
	p := newTestPipeline(t, wallWorld(), width, height, workers, nil)

	cam, err := NewCamera(width, height, parameter.CameraFOV, parameter.RayMaxDistance)
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	if err := p.SetCamera(cam); err != nil {
		t.Fatalf("SetCamera failed: %v", err)
	}

	var swapped atomic.Bool
	p.trace = func(worker, x, y int) {
		if swapped.CompareAndSwap(false, true) {
			p.SetCamera(nil)
		}
	}

	f, err := p.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	for i, c := range f.Cells {
		if c.Color() != core.Indexed(core.PaletteGreen) {
			t.Fatalf("Cell %d: expected wall from the frame's camera, got %v", i, c.Color())
		}
	}

	// The swap applies from the next frame
	p.trace = nil
	f, err = p.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if f.Cells[0] != p.shader.Background() {
		t.Errorf("Expected background after camera removed, got %x", f.Cells[0])
	}
}

func TestPipeline_NilCameraBlankFrame(t *testing.T) {
	p := newTestPipeline(t, wallWorld(), 8, 4, 2, nil)

	f, err := p.RenderFrame(context.Background())
	if err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	bg := p.shader.Background()
	for i, c := range f.Cells {
		if c != bg {
			t.Fatalf("Cell %d: expected background, got %x", i, c)
		}
	}
}

func TestPipeline_FlushBeforeClear(t *testing.T) {
	var states []State
	var sinkFrame Frame
	var p *Pipeline
	sink := SinkFunc(func(f Frame) error {
		states = append(states, p.State())
		sinkFrame = f
		return nil
	})
	p = newTestPipeline(t, wallWorld(), 8, 4, 4, sink)

	cam, _ := NewCamera(8, 4, 90, 32)
	p.SetCamera(cam)

	if _, err := p.RenderFrame(context.Background()); err != nil {
		t.Fatalf("RenderFrame failed: %v", err)
	}
	if len(states) != 1 || states[0] != StateFrameComplete {
		t.Fatalf("Expected sink to run once in FrameComplete, got %v", states)
	}
	if sinkFrame.At(0, 0).Color() != core.Indexed(core.PaletteGreen) {
		t.Errorf("Expected sink to see the rendered frame")
	}

	// Background is cleared after the flush
	bg := p.shader.Background()
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if p.buf.At(x, y) != bg {
				t.Fatalf("Expected cleared buffer at (%d, %d)", x, y)
			}
		}
	}
}

func TestPipeline_SinkErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	p := newTestPipeline(t, wallWorld(), 4, 2, 2, SinkFunc(func(Frame) error { return boom }))

	_, err := p.RenderFrame(context.Background())
	if errors.Cause(err) != boom {
		t.Errorf("Expected sink error, got %v", err)
	}
	if p.State() != StateIdle {
		t.Errorf("Expected Idle after failed flush, got %v", p.State())
	}
}

func TestPipeline_ShutdownClosed(t *testing.T) {
	p := newTestPipeline(t, wallWorld(), 4, 2, 2, nil)

	if err := p.Shutdown(); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if err := p.Shutdown(); err != nil {
		t.Errorf("Expected second Shutdown to be a no-op, got %v", err)
	}
	if _, err := p.RenderFrame(context.Background()); err != ErrPipelineClosed {
		t.Errorf("Expected ErrPipelineClosed, got %v", err)
	}
}

func TestPipeline_CanceledContext(t *testing.T) {
	p := newTestPipeline(t, wallWorld(), 4, 2, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.RenderFrame(ctx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if _, err := p.RenderFrame(context.Background()); err != nil {
		t.Errorf("Expected pipeline usable after canceled frame, got %v", err)
	}
}

func TestPipeline_CameraSizeMismatch(t *testing.T) {
	p := newTestPipeline(t, wallWorld(), 4, 2, 2, nil)
	cam, _ := NewCamera(8, 2, 90, 32)
	if err := p.SetCamera(cam); err == nil {
		t.Errorf("Expected size mismatch error")
	}
}

// Shapes added and removed while frames render never tear a frame
func TestPipeline_ConcurrentWorldMutation(t *testing.T) {
	world := wallWorld()
	p := newTestPipeline(t, world, 8, 4, 4, nil)
	cam, _ := NewCamera(8, 4, 90, 32)
	p.SetCamera(cam)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			s := physics.NewSphere(0.5, physics.Options{Color: core.Indexed(core.PaletteRed)})
			s.SetPosition(vmath.V3(0, 0, -2))
			world.Add(s)
			world.Remove(s)
		}
	}()

	for i := 0; i < 20; i++ {
		f, err := p.RenderFrame(context.Background())
		if err != nil {
			t.Fatalf("RenderFrame failed: %v", err)
		}
		for _, c := range f.Cells {
			col := c.Color()
			if col != core.Indexed(core.PaletteGreen) && col != core.Indexed(core.PaletteRed) {
				t.Fatalf("Unexpected cell color %v", col)
			}
		}
	}
	close(stop)
	<-done
}
