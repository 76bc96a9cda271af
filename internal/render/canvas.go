// Package render turns assembled scenes into encoded tile images.
//
// The renderer works in canvas coordinates: typographic points with the
// origin at the tile's top-left corner and y growing down. A Canvas backend
// only has to draw paths, fills and text in that space; the raster backend
// scales points to pixels, the vector backend writes them into SVG user
// units.
package render

import "github.com/railmap/railmap/internal/style"

// Paint describes one stroke pass.
type Paint struct {
	Color style.Color

	// Width is the stroke width in typographic points.
	Width float64

	// Dash is the on/off pattern in typographic points. Empty strokes
	// solid.
	Dash []float64
}

// Anchor selects how text is aligned against its position.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Canvas is one tile image under construction. Paths are built with MoveTo
// and LineTo and consumed by the next Stroke or Fill call.
type Canvas interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	ClosePath()

	Stroke(p Paint)
	Fill(c style.Color)

	// Text draws a single line of text. The position is the vertical
	// center of the line; size is the font size in typographic points.
	Text(x, y float64, s string, size float64, anchor Anchor, c style.Color)

	// Encode finishes the image and returns the encoded bytes.
	Encode() ([]byte, error)
}
