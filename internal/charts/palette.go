// Package charts renders bar and line charts in the two house styles.
package charts

import (
	"image/color"

	"github.com/jonathan/chart-agent/internal/types"
)

// Palette is one of the two fixed house color schemes.
type Palette struct {
	Primary    color.Color
	Content    color.Color
	Background color.Color
}

var (
	// paletteFD is teal on beige (Het Financieele Dagblad).
	paletteFD = Palette{
		Primary:    color.RGBA{R: 0x37, G: 0x95, B: 0x96, A: 0xff},
		Content:    color.RGBA{R: 0x19, G: 0x19, B: 0x19, A: 0xff},
		Background: color.RGBA{R: 0xff, G: 0xea, B: 0xdb, A: 0xff},
	}
	// paletteBNR is yellow on white (BNR Nieuwsradio).
	paletteBNR = Palette{
		Primary:    color.RGBA{R: 0xff, G: 0xd2, B: 0x00, A: 0xff},
		Content:    color.RGBA{A: 0xff},
		Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
)

// PaletteFor returns the palette for a scheme, defaulting to FD.
func PaletteFor(scheme types.ColorScheme) Palette {
	if scheme == types.SchemeBNR {
		return paletteBNR
	}
	return paletteFD
}
