package asset

import (
	"image"
	"image/color"
)

// Palette maps pattern runes to texel colors, unmapped runes are transparent
type Palette map[rune]color.NRGBA

// FromPattern builds an image from equal-length text rows, one texel per rune
func FromPattern(rows []string, pal Palette) *image.NRGBA {
	w := 0
	for _, r := range rows {
		w = max(w, len([]rune(r)))
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, len(rows)))
	for y, row := range rows {
		for x, r := range []rune(row) {
			if c, ok := pal[r]; ok {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

var goblinRows = []string{
	"...gggg...",
	"..gggggg..",
	"..gRggRg..",
	"..gggggg..",
	"...gwwg...",
	".bbbbbbbb.",
	"g.bbbbbb.g",
	"..bbbbbb..",
	"..bb..bb..",
	"..bb..bb..",
}

var goblinPalette = Palette{
	'g': {R: 70, G: 150, B: 60, A: 255},
	'R': {R: 220, G: 30, B: 30, A: 255},
	'w': {R: 230, G: 230, B: 210, A: 255},
	'b': {R: 110, G: 70, B: 40, A: 255},
}

// Goblin returns the built-in enemy sprite
func Goblin() *image.NRGBA {
	return FromPattern(goblinRows, goblinPalette)
}

var muffinRows = []string{
	"..pppp..",
	".pppppp.",
	"pppwpppp",
	".tttttt.",
	".tbtbtb.",
	"..tttt..",
}

var muffinPalette = Palette{
	'p': {R: 230, G: 120, B: 170, A: 255},
	'w': {R: 250, G: 245, B: 240, A: 255},
	't': {R: 190, G: 140, B: 70, A: 255},
	'b': {R: 150, G: 100, B: 50, A: 255},
}

// Muffin returns the built-in pickup sprite
func Muffin() *image.NRGBA {
	return FromPattern(muffinRows, muffinPalette)
}
