package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/physics"
)

// Shader maps a hit to a packed cell: distance picks the glyph, and far hits
// fade toward the background color
type Shader struct {
	ramp       []rune
	brightness float32
	fog        float64
	maxDist    float32
	bg         core.Color
	bgCell     Cell
}

// ShaderConfig configures glyph and fog mapping
type ShaderConfig struct {
	Ramp        string     // Darkest glyph first
	Brightness  float32    // Distance per ramp step
	Fog         float64    // Max blend toward Background at MaxDistance, 0 disables
	MaxDistance float32    // Distance at which fog peaks
	Background  core.Color // Color of cleared cells
}

// NewShader builds a shader, an empty ramp falls back to a single space
func NewShader(cfg ShaderConfig) *Shader {
	ramp := []rune(cfg.Ramp)
	if len(ramp) == 0 {
		ramp = []rune{' '}
	}
	return &Shader{
		ramp:       ramp,
		brightness: cfg.Brightness,
		fog:        cfg.Fog,
		maxDist:    cfg.MaxDistance,
		bg:         cfg.Background,
		bgCell:     PackCell(cfg.Background, ramp[0]),
	}
}

// GlyphIndex returns clamp(len(ramp) - d/brightness, 0, len(ramp)-1)
func (s *Shader) GlyphIndex(d float32) int {
	n := len(s.ramp)
	if s.brightness <= 0 {
		return n - 1
	}
	idx := int(float32(n) - d/s.brightness)
	return max(0, min(idx, n-1))
}

// Glyph returns the ramp glyph for a distance
func (s *Shader) Glyph(d float32) rune {
	return s.ramp[s.GlyphIndex(d)]
}

// Background returns the cell written for misses and cleared cells
func (s *Shader) Background() Cell {
	return s.bgCell
}

// Shade encodes a hit
func (s *Shader) Shade(hit physics.HitInfo) Cell {
	return PackCell(s.fogColor(hit.Color, hit.Distance), s.Glyph(hit.Distance))
}

// fogColor blends c toward the background in Lab space, proportional to distance
func (s *Shader) fogColor(c core.Color, d float32) core.Color {
	if s.fog <= 0 || s.maxDist <= 0 || d <= 0 {
		return c
	}
	t := s.fog * float64(min(d/s.maxDist, 1))

	src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	dst := colorful.Color{R: float64(s.bg.R) / 255, G: float64(s.bg.G) / 255, B: float64(s.bg.B) / 255}
	r, g, b := src.BlendLab(dst, t).Clamped().RGB255()
	return core.NewRGB(r, g, b)
}
