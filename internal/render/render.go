package render

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/style"
)

// Format selects the encoding of a rendered tile.
type Format int

const (
	FormatPNG Format = iota
	FormatSVG
)

func (f Format) String() string {
	if f == FormatSVG {
		return "svg"
	}
	return "png"
}

// ContentType returns the MIME type of the encoded tile.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat maps a request extension to a format.
func ParseFormat(ext string) (Format, bool) {
	switch ext {
	case "png":
		return FormatPNG, true
	case "svg":
		return FormatSVG, true
	}
	return 0, false
}

// ErrRender wraps a failure while drawing or encoding one tile.
type ErrRender struct {
	Layer   string
	Z, X, Y uint32
	Err     error
}

func (e *ErrRender) Error() string {
	return fmt.Sprintf("rendering %s/%d/%d/%d: %v", e.Layer, e.Z, e.X, e.Y, e.Err)
}

func (e *ErrRender) Unwrap() error { return e.Err }

// Tile draws a scene and encodes it. The output is a pure function of the
// scene and the format.
func Tile(scene feature.Scene, format Format) ([]byte, error) {
	var canvas Canvas
	if format == FormatSVG {
		canvas = NewVector()
	} else {
		canvas = NewRaster()
	}

	r := &renderer{
		canvas: canvas,
		layer:  scene.Layer,
		units:  scene.Units,
		origin: orb.Point{scene.Bound.Min[0], scene.Bound.Max[1]},
		scale:  style.CanvasBp / geom.TileSpan(scene.Zoom),
	}
	for _, f := range scene.Features {
		r.draw(f)
	}
	return canvas.Encode()
}

// renderer projects Mercator geometry onto the canvas and draws one scene.
type renderer struct {
	canvas Canvas
	layer  style.Layer
	units  style.Units

	// origin is the tile's top-left Mercator corner; scale converts
	// Mercator meters to typographic points.
	origin orb.Point
	scale  float64
}

func (r *renderer) project(p orb.Point) (x, y float64) {
	return (p[0] - r.origin[0]) * r.scale, (r.origin[1] - p[1]) * r.scale
}

func (r *renderer) draw(f *feature.Feature) {
	switch f.Kind {
	case style.KindTrack, style.KindGeneric:
		r.track(f)
	case style.KindBorder:
		r.border(f)
	case style.KindGuide:
		r.guide(f)
	case style.KindMarker:
		r.marker(f)
	case style.KindStation:
		r.station(f)
	case style.KindLineBadge:
		r.lineBadge(f)
	}
}

func (r *renderer) tracePath(line geom.Polyline) {
	for i, p := range line {
		x, y := r.project(p)
		if i == 0 {
			r.canvas.MoveTo(x, y)
		} else {
			r.canvas.LineTo(x, y)
		}
	}
}

func (r *renderer) strokeLine(line geom.Polyline, p Paint) {
	if len(line) < 2 {
		return
	}
	r.tracePath(line)
	r.canvas.Stroke(p)
}

func (r *renderer) track(f *feature.Feature) {
	u := r.units
	pal := style.PaletteFor(r.layer.Class, f.Symbols)

	width := u.OtherWidth
	if f.Symbols.Has("first") || f.Symbols.Has("station") {
		width = u.LineWidth
	}
	paint := Paint{Color: pal.Stroke, Width: width}
	if outOfService(f.Symbols) {
		paint.Dash = []float64{2.5 * width, 2 * width}
	}

	if f.Symbols.Has("double") {
		off := 0.5 * u.Dt / r.scale
		r.strokeLine(f.Line.Offset(off), paint)
		r.strokeLine(f.Line.Offset(-off), paint)
	} else {
		r.strokeLine(f.Line, paint)
	}

	if col, ok := style.CatColor(r.layer.Class, f.Symbols); ok {
		r.hatch(f.Line, col)
	}
}

func outOfService(symbols style.SymbolSet) bool {
	return symbols.Has("removed") || symbols.Has("gone") ||
		symbols.Has("former") || symbols.Has("closed")
}

// hatch draws catenary ticks across the track, one per marking segment.
func (r *renderer) hatch(line geom.Polyline, col style.Color) {
	u := r.units
	step := u.Seg / r.scale
	half := 0.5 * u.Dt / r.scale
	total := line.Length()
	paint := Paint{Color: col, Width: u.MarkWidth}
	for s := step / 2; s < total; s += step {
		p := line.PointAt(s)
		n := geom.LeftNormal(line.TangentAt(s))
		a := geom.Add(p, geom.Scale(n, half))
		b := geom.Sub(p, geom.Scale(n, half))
		ax, ay := r.project(a)
		bx, by := r.project(b)
		r.canvas.MoveTo(ax, ay)
		r.canvas.LineTo(bx, by)
		r.canvas.Stroke(paint)
	}
}

func (r *renderer) border(f *feature.Feature) {
	u := r.units
	casing := Paint{
		Color: style.Color{R: 0.55, G: 0.45, B: 0.6, A: 0.35},
		Width: 5 * u.BorderWidth,
	}
	r.strokeLine(f.Line, casing)
	core := Paint{
		Color: style.Color{R: 0.4, G: 0.3, B: 0.45, A: 1},
		Width: u.BorderWidth,
		Dash:  []float64{6 * u.BorderWidth, 3 * u.BorderWidth},
	}
	r.strokeLine(f.Line, core)
}

func (r *renderer) guide(f *feature.Feature) {
	r.strokeLine(f.Line, Paint{
		Color: style.Grey(0.55),
		Width: r.units.GuideWidth,
	})
}
