package render

import (
	"strings"
)

// FrameBuffer is a width x height grid of packed cells
// Concurrent writers must own disjoint cells; the buffer has no per-cell lock
type FrameBuffer struct {
	cells  []Cell
	width  int
	height int
}

// NewFrameBuffer creates a buffer filled with bg
func NewFrameBuffer(width, height int, bg Cell) *FrameBuffer {
	b := &FrameBuffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	b.Clear(bg)
	return b
}

func (b *FrameBuffer) Width() int  { return b.width }
func (b *FrameBuffer) Height() int { return b.height }

// inBounds returns true if in screen bounds
func (b *FrameBuffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Set writes one cell, out-of-bounds writes are dropped
func (b *FrameBuffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// At reads one cell, out-of-bounds reads return 0
func (b *FrameBuffer) At(x, y int) Cell {
	if !b.inBounds(x, y) {
		return 0
	}
	return b.cells[y*b.width+x]
}

// Clear fills every cell with bg using exponential copy
func (b *FrameBuffer) Clear(bg Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = bg
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Snapshot copies the buffer into an immutable frame
func (b *FrameBuffer) Snapshot() Frame {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return Frame{Width: b.width, Height: b.height, Cells: cells}
}

// Frame is a finished frame handed to sinks
type Frame struct {
	Width  int
	Height int
	Cells  []Cell // Row-major
}

// At reads one cell, out-of-bounds reads return 0
func (f Frame) At(x, y int) Cell {
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return 0
	}
	return f.Cells[y*f.Width+x]
}

// Text renders the glyphs as newline-separated rows, colors dropped
func (f Frame) Text() string {
	var sb strings.Builder
	sb.Grow((f.Width + 1) * f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			g := f.Cells[y*f.Width+x].Glyph()
			if g == 0 {
				g = ' '
			}
			sb.WriteRune(g)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Text renders the live buffer, see Frame.Text
func (b *FrameBuffer) Text() string {
	return b.Snapshot().Text()
}
