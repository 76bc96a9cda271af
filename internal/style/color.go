package style

import "fmt"

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// Grey returns an opaque grey of the given lightness.
func Grey(l float64) Color {
	return Color{l, l, l, 1}
}

// Transparent is the fully transparent color.
var Transparent = Color{}

// Black is opaque black.
var Black = Color{0, 0, 0, 1}

// White is opaque white.
var White = Color{1, 1, 1, 1}

// Hex renders the color as a #rrggbb string. The alpha channel is dropped;
// SVG output carries it as a separate opacity attribute.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(c.R*255+0.5), uint8(c.G*255+0.5), uint8(c.B*255+0.5))
}

// Lighten blends the color towards white by f in [0, 1].
func (c Color) Lighten(f float64) Color {
	return Color{
		R: c.R + (1-c.R)*f,
		G: c.G + (1-c.G)*f,
		B: c.B + (1-c.B)*f,
		A: c.A,
	}
}

// Palette is the set of colors one feature is drawn with.
type Palette struct {
	Stroke Color
	Fill   Color
	Text   Color
}

// Status palettes. Open lines are drawn in their class color; the longer a
// line has been out of service the lighter it is drawn.
var (
	paletteClosed = Palette{
		Stroke: Grey(0.4),
		Fill:   Grey(0.5),
		Text:   Grey(0.2),
	}
	paletteRemoved = Palette{
		Stroke: Grey(0.6),
		Fill:   Grey(0.7),
		Text:   Grey(0.4),
	}
	paletteGone = Palette{
		Stroke: Grey(0.8),
		Fill:   Grey(0.9),
		Text:   Grey(0.6),
	}
)

// Class colors for open lines on the electrification map.
var (
	colorNone   = RGB(0.5, 0.2, 0.1)
	colorACHigh = RGB(0.6, 0.0, 0.0)
	colorACLow  = RGB(0.9, 0.4, 0.0)
	colorDC     = RGB(0.0, 0.2, 0.6)
	colorRail   = RGB(0.2, 0.5, 0.2)
	colorTram   = RGB(0.5, 0.0, 0.5)
)

// Pax colors for open lines on the passenger map.
var (
	colorPaxFull = RGB(0.6, 0.0, 0.0)
	colorPaxPart = RGB(0.0, 0.2, 0.6)
	colorPaxNone = Grey(0.3)
)

// PaletteFor returns the palette a feature with the given symbols is drawn
// with under a style class.
func PaletteFor(class Class, symbols SymbolSet) Palette {
	switch {
	case symbols.Has("gone") || symbols.Has("former"):
		return paletteGone
	case symbols.Has("removed"):
		return paletteRemoved
	case symbols.Has("closed"):
		return paletteClosed
	}
	stroke := openColor(class, symbols)
	return Palette{Stroke: stroke, Fill: stroke, Text: Black}
}

func openColor(class Class, symbols SymbolSet) Color {
	if class == ClassPax {
		switch {
		case symbols.Has("pax"):
			return colorPaxFull
		case symbols.Has("nopax"):
			return colorPaxNone
		default:
			return colorPaxPart
		}
	}
	switch {
	case symbols.Has("tram"):
		return colorTram
	case symbols.Has("rail"):
		return colorRail
	case symbols.Has("dc"):
		return colorDC
	case symbols.Has("aclow"):
		return colorACLow
	case symbols.Has("cat"), symbols.Has("ac"):
		return colorACHigh
	default:
		return colorNone
	}
}

// CatColor returns the color of catenary hatching, or false when the
// symbols carry no electrification marking.
func CatColor(class Class, symbols SymbolSet) (Color, bool) {
	if !symbols.Has("cat") {
		return Color{}, false
	}
	p := PaletteFor(class, symbols)
	return p.Stroke, true
}
