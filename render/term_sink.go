package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-crawler/core"
	"github.com/lixenwraith/vi-crawler/parameter"
)

// paletteTcell maps palette entries to the 8 basic ANSI colors
var paletteTcell = [...]tcell.Color{
	core.PaletteNone:   tcell.ColorDefault,
	core.PaletteBlack:  tcell.ColorBlack,
	core.PaletteRed:    tcell.ColorMaroon,
	core.PaletteGreen:  tcell.ColorGreen,
	core.PaletteYellow: tcell.ColorOlive,
	core.PaletteBlue:   tcell.ColorNavy,
	core.PalettePurple: tcell.ColorPurple,
	core.PaletteCyan:   tcell.ColorTeal,
	core.PaletteWhite:  tcell.ColorSilver,
}

// TermSink draws frames onto a tcell screen
type TermSink struct {
	screen  tcell.Screen
	palette bool
	bg      tcell.Color
	// Overlay draws on top of each frame before Show, optional
	Overlay func(s tcell.Screen)
}

// NewTermSink creates a sink for the given color mode
func NewTermSink(screen tcell.Screen, colorMode string) (*TermSink, error) {
	if screen == nil {
		return nil, errors.New("render: nil screen")
	}
	switch colorMode {
	case parameter.ColorModeTrueColor, "":
	case parameter.ColorModePalette:
	default:
		return nil, errors.Errorf("render: unknown color mode %q", colorMode)
	}
	return &TermSink{
		screen:  screen,
		palette: colorMode == parameter.ColorModePalette,
		bg:      tcell.ColorBlack,
	}, nil
}

// TcellColor converts a core color for this sink's color mode
func (s *TermSink) TcellColor(c core.Color) tcell.Color {
	if s.palette {
		return paletteTcell[c.Nearest().Palette]
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Draw writes the frame at the screen origin and shows it
func (s *TermSink) Draw(f Frame) error {
	base := tcell.StyleDefault.Background(s.bg)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			cell := f.Cells[y*f.Width+x]
			g := cell.Glyph()
			if g == 0 {
				g = ' '
			}
			s.screen.SetContent(x, y, g, nil, base.Foreground(s.TcellColor(cell.Color())))
		}
	}
	if s.Overlay != nil {
		s.Overlay(s.screen)
	}
	s.screen.Show()
	return nil
}
