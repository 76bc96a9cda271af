package render

import (
	"math"

	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/style"
)

// Pictogram outlines in marker units: u runs along the track, v away from
// it on the placement side, both in [-0.5, 1]. Scaled by (sw, sh) when
// drawn.
var pictograms = map[string][][2]float64{
	// Station with full service: a solid block beside the track.
	"de_bf": {{-0.5, 0}, {0.5, 0}, {0.5, 1}, {-0.5, 1}},
	// Halt: the same block at half height.
	"de_hp": {{-0.5, 0}, {0.5, 0}, {0.5, 0.5}, {-0.5, 0.5}},
	// Junction: a triangle pointing away from the track.
	"de_abzw": {{-0.5, 0}, {0.5, 0}, {0, 1}},
	// Direction change: a narrow post.
	"de_dirgr": {{-0.15, 0}, {0.15, 0}, {0.15, 1}, {-0.15, 1}},
	// Generic stop: a diamond centered on the track.
	"statdt": {{0, -0.5}, {0.35, 0}, {0, 0.5}, {-0.35, 0}},
}

// fallbackDot approximates a filled circle for markers without a known
// pictogram.
var fallbackDot = func() [][2]float64 {
	const steps = 12
	out := make([][2]float64, steps)
	for i := range out {
		a := 2 * math.Pi * float64(i) / steps
		out[i] = [2]float64{0.3 * math.Cos(a), 0.3 * math.Sin(a)}
	}
	return out
}()

func (r *renderer) marker(f *feature.Feature) {
	outline, ok := pictograms[f.Marker]
	if !ok {
		outline = fallbackDot
	}
	pal := style.PaletteFor(r.layer.Class, f.Symbols)

	ax, ay := r.project(f.Anchor)
	// The feature angle is measured counterclockwise in Mercator space;
	// the canvas y axis points down, so the direction flips its y part.
	sin, cos := math.Sin(f.Angle), math.Cos(f.Angle)
	dir := [2]float64{cos, -sin}
	side := [2]float64{sin, cos}
	if f.Symbols.Has("left") {
		side[0], side[1] = -side[0], -side[1]
	}

	u := r.units
	for i, p := range outline {
		du := p[0] * u.Sw
		dv := p[1] * u.Sh
		x := ax + du*dir[0] + dv*side[0]
		y := ay + du*dir[1] + dv*side[1]
		if i == 0 {
			r.canvas.MoveTo(x, y)
		} else {
			r.canvas.LineTo(x, y)
		}
	}
	r.canvas.ClosePath()
	r.canvas.Fill(pal.Fill)
}

func (r *renderer) station(f *feature.Feature) {
	name := f.Texts.Display(r.layer.Text)
	if name == "" {
		return
	}
	pal := style.PaletteFor(r.layer.Class, f.Symbols)
	u := r.units

	anchor := AnchorStart
	gap := 0.4 * u.Sw
	if f.Texts.Side == feature.SideLeft {
		anchor = AnchorEnd
		gap = -gap
	}
	x, y := r.project(f.Anchor)
	size := 0.9 * u.Sh
	r.canvas.Text(x+gap, y, name, size, anchor, pal.Text)
	if f.Texts.Aux != "" {
		r.canvas.Text(x+gap, y+1.1*size, f.Texts.Aux, 0.75*size, anchor, pal.Text)
	}
}

// Badge fill colors selected by symbol. Unlisted symbols fall back to the
// layer palette.
var badgeColors = map[string]style.Color{
	"red":    style.RGB(0.75, 0.1, 0.1),
	"blue":   style.RGB(0.1, 0.2, 0.65),
	"green":  style.RGB(0.1, 0.45, 0.15),
	"yellow": style.RGB(0.9, 0.75, 0.1),
	"black":  style.Grey(0.15),
}

func (r *renderer) lineBadge(f *feature.Feature) {
	number := f.Texts.Name
	if number == "" {
		return
	}
	u := r.units

	fill, found := style.Color{}, false
	for _, s := range f.Symbols.Sorted() {
		if c, ok := badgeColors[s]; ok {
			fill, found = c, true
			break
		}
	}
	if !found {
		fill = style.PaletteFor(r.layer.Class, f.Symbols).Stroke
	}
	text := style.White
	if fill.R+fill.G+fill.B > 1.8 {
		text = style.Black
	}

	size := 0.8 * u.Sh
	w := 0.62*size*float64(len([]rune(number))) + 0.8*size
	h := 1.3 * size
	x, y := r.project(f.Anchor)

	r.canvas.MoveTo(x-w/2, y-h/2)
	r.canvas.LineTo(x+w/2, y-h/2)
	r.canvas.LineTo(x+w/2, y+h/2)
	r.canvas.LineTo(x-w/2, y+h/2)
	r.canvas.ClosePath()
	r.canvas.Fill(fill)

	r.canvas.Text(x, y, number, size, AnchorMiddle, text)
}
