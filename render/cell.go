package render

import (
	"github.com/lixenwraith/vi-crawler/core"
)

// Cell is a packed framebuffer cell: color bits from core.Color.Pack in the
// high bits, glyph in the low 16 bits
type Cell uint64

const glyphMask = 0xFFFF

// PackCell combines a color and a glyph; glyphs outside the BMP are truncated
func PackCell(c core.Color, glyph rune) Cell {
	return Cell(c.Pack() | uint64(glyph)&glyphMask)
}

// Glyph returns the low 16 bits as a rune
func (c Cell) Glyph() rune {
	return rune(uint64(c) & glyphMask)
}

// Color returns the decoded color
func (c Cell) Color() core.Color {
	return core.Unpack(uint64(c))
}
