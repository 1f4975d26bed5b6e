package render

import (
	"testing"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
	"github.com/lixenwraith/vi-crawler/physics"
)

func TestPackCell_RoundTrip(t *testing.T) {
	c := PackCell(core.Indexed(core.PaletteRed), '@')
	if c.Glyph() != '@' {
		t.Errorf("Expected glyph '@', got %q", c.Glyph())
	}
	if c.Color() != core.Indexed(core.PaletteRed) {
		t.Errorf("Expected red, got %v", c.Color())
	}

	rgb := core.NewRGB(1, 2, 3)
	if got := PackCell(rgb, 'X').Color(); got != rgb {
		t.Errorf("Expected %v, got %v", rgb, got)
	}
}

func TestShader_GlyphIndex(t *testing.T) {
	s := NewShader(ShaderConfig{Ramp: parameter.GlyphRamp, Brightness: 2})
	n := len([]rune(parameter.GlyphRamp))

	tests := []struct {
		dist float32
		want int
	}{
		{0, n - 1},
		{1, n - 1},
		{4, n - 2},
		{10, n - 5},
		{float32(n) * 2, 0},
		{1000, 0},
	}
	for _, tt := range tests {
		if got := s.GlyphIndex(tt.dist); got != tt.want {
			t.Errorf("Distance %v: expected index %d, got %d", tt.dist, tt.want, got)
		}
	}

	if s.Glyph(0) != '@' || s.Glyph(1000) != ' ' {
		t.Errorf("Expected '@' near and ' ' far, got %q and %q", s.Glyph(0), s.Glyph(1000))
	}
}

func TestShader_FogBlendsTowardBackground(t *testing.T) {
	bg := core.NewRGB(0, 0, 0)
	red := core.NewRGB(255, 0, 0)

	plain := NewShader(ShaderConfig{Ramp: "ab", Brightness: 1, Background: bg})
	if got := plain.Shade(physics.HitInfo{Color: red, Distance: 5}).Color(); got != red {
		t.Errorf("Expected no fog to keep color, got %v", got)
	}

	foggy := NewShader(ShaderConfig{Ramp: "ab", Brightness: 1, Fog: 1, MaxDistance: 10, Background: bg})
	near := foggy.Shade(physics.HitInfo{Color: red, Distance: 1}).Color()
	far := foggy.Shade(physics.HitInfo{Color: red, Distance: 10}).Color()

	if near.R <= far.R {
		t.Errorf("Expected far hit darker, got near %v far %v", near, far)
	}
	if far.R > 2 || far.G > 2 || far.B > 2 {
		t.Errorf("Expected full fog to reach background, got %v", far)
	}
}

func TestShader_EmptyRamp(t *testing.T) {
	s := NewShader(ShaderConfig{Brightness: 1})
	if s.Glyph(0) != ' ' || s.Background().Glyph() != ' ' {
		t.Errorf("Expected space fallback")
	}
}
