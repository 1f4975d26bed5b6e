package core

// Palette is one of the eight named terminal colors
type Palette uint8

const (
	PaletteNone Palette = iota // RGB color, not a palette entry
	PaletteBlack
	PaletteRed
	PaletteGreen
	PaletteYellow
	PalettePurple
	PaletteBlue
	PaletteCyan
	PaletteWhite
)

// paletteRGB maps palette entries to their 24-bit values
var paletteRGB = [...]RGB{
	PaletteNone:   {0xCC, 0xCC, 0xCC},
	PaletteBlack:  {0x0C, 0x0C, 0x0C},
	PaletteRed:    {0xC5, 0x0F, 0x1F},
	PaletteGreen:  {0x13, 0xA1, 0x0E},
	PaletteYellow: {0xC1, 0x9C, 0x00},
	PaletteBlue:   {0x00, 0x37, 0xDA},
	PalettePurple: {0x88, 0x17, 0x98},
	PaletteCyan:   {0x33, 0xBB, 0xC8},
	PaletteWhite:  {0xCC, 0xCC, 0xCC},
}

// String returns the palette name
func (p Palette) String() string {
	switch p {
	case PaletteBlack:
		return "black"
	case PaletteRed:
		return "red"
	case PaletteGreen:
		return "green"
	case PaletteYellow:
		return "yellow"
	case PaletteBlue:
		return "blue"
	case PalettePurple:
		return "purple"
	case PaletteCyan:
		return "cyan"
	case PaletteWhite:
		return "white"
	default:
		return "rgb"
	}
}

// RGB stores explicit 8-bit color channels, decoupled from tcell
type RGB struct {
	R, G, B uint8
}

// Predefined colors
var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// Color is either an indexed palette value or a full 24-bit RGB value
// RGB is always populated so both forms pack identically
type Color struct {
	RGB
	Palette Palette
}

// Indexed returns the palette color
func Indexed(p Palette) Color {
	if int(p) >= len(paletteRGB) {
		p = PaletteWhite
	}
	return Color{RGB: paletteRGB[p], Palette: p}
}

// NewRGB returns a 24-bit color
func NewRGB(r, g, b uint8) Color {
	return Color{RGB: RGB{r, g, b}}
}

// IsIndexed reports whether the color came from the palette
func (c Color) IsIndexed() bool {
	return c.Palette != PaletteNone
}

// Pack encodes the color as R<<32 | G<<24 | B<<16
// Low 16 bits stay free for a glyph in packed framebuffer cells
func (c Color) Pack() uint64 {
	return uint64(c.R)<<32 | uint64(c.G)<<24 | uint64(c.B)<<16
}

// Unpack decodes a packed color, ignoring the low 16 bits
// The packed form carries no palette tag: any value whose RGB equals a palette
// entry comes back indexed, including one built with NewRGB, so compare RGB
// when the origin matters
func Unpack(v uint64) Color {
	rgb := RGB{
		R: uint8(v >> 32),
		G: uint8(v >> 24),
		B: uint8(v >> 16),
	}
	for p := PaletteBlack; p <= PaletteWhite; p++ {
		if paletteRGB[p] == rgb {
			return Color{RGB: rgb, Palette: p}
		}
	}
	return Color{RGB: rgb}
}

// Nearest quantizes to the closest palette entry by squared RGB distance
func (c Color) Nearest() Color {
	if c.IsIndexed() {
		return c
	}
	best := PaletteWhite
	bestDist := int(^uint(0) >> 1)
	for p := PaletteBlack; p <= PaletteWhite; p++ {
		ref := paletteRGB[p]
		dr := int(ref.R) - int(c.R)
		dg := int(ref.G) - int(c.G)
		db := int(ref.B) - int(c.B)
		d := dr*dr + dg*dg + db*db
		if d == 0 {
			return Indexed(p)
		}
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return Indexed(best)
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (c RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Scale multiplies each channel by factor (for fading effects)
func (c RGB) Scale(factor float64) RGB {
	if factor <= 0 {
		return RGBBlack
	}
	if factor >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
	}
}
