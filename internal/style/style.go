// Package style holds the rendering constants that turn abstract map
// distances into concrete geometry.
//
// Distances in map sources come in two flavors. World distances (m, km) are
// arc length along a stored path and are consumed as Mercator meters
// directly. Map distances (bp, dt, dl, st, sw, sh) describe sizes on the
// rendered map and depend on the detail level. Each detail level carries a
// unit table in typographic points plus the meter size of one point at the
// level's nominal zoom, so map distances can be fixed to meters when
// features are built.
package style

import "github.com/railmap/railmap/internal/geom"

// MM is the length of a millimeter in typographic points.
const MM = 72.0 / 25.4

// CanvasBp is the side length of a rendered tile in typographic points.
const CanvasBp = 192.0

// MinDetail and MaxDetail bound the detail levels features can be declared
// at.
const (
	MinDetail = 1
	MaxDetail = 4
)

// detailTable maps zoom levels to detail levels.
var detailTable = [geom.MaxZoom + 1]int{
	1, 1, 1, 1, 1,
	1, 1, 1, 1, 2,
	2, 3, 3, 4, 4,
	4, 4, 4,
}

// magTable maps zoom levels to the magnification applied to the unit table.
var magTable = [geom.MaxZoom + 1]float64{
	1.0, 1.0, 1.0, 1.0, 1.0,
	1.0, 1.0, 1.0, 1.3, 1.0,
	1.3, 1.3, 1.6, 1.3, 1.6,
	1.3, 1.6, 1.9,
}

// nominalZoom is the zoom level whose scale fixes map distances for each
// detail level. For levels 2 to 4 it is the first zoom of the level's band;
// level 1, whose band starts at zoom 0, uses zoom 7.
var nominalZoom = [MaxDetail + 1]uint32{0, 7, 9, 11, 13}

// Detail returns the detail level rendered at a zoom level.
func Detail(zoom uint32) int {
	if int(zoom) >= len(detailTable) {
		return MaxDetail
	}
	return detailTable[zoom]
}

// Magnification returns the unit magnification for a zoom level.
func Magnification(zoom uint32) float64 {
	if int(zoom) >= len(magTable) {
		return magTable[len(magTable)-1]
	}
	return magTable[zoom]
}

// Units is the map distance table of one detail level. All sizes are in
// typographic points; MeterPerBp converts them into Mercator meters at the
// level's nominal zoom.
type Units struct {
	// Dt is the distance between two parallel tracks. It is the base unit
	// most other sizes derive from.
	Dt float64

	// Dl is the length of a cross-over between parallel tracks.
	Dl float64

	// Sw and Sh are the width and height of a station symbol.
	Sw float64
	Sh float64

	// LineWidth is the stroke width of main line track, which is also the
	// value of the "st" unit. OtherWidth strokes all remaining track.
	LineWidth  float64
	OtherWidth float64

	// MarkWidth strokes electrification markings, GuideWidth guiding
	// lines, BorderWidth border casings.
	MarkWidth   float64
	GuideWidth  float64
	BorderWidth float64

	// Seg is the standard length of one segment of line markings.
	Seg float64

	// MeterPerBp is the size of one typographic point in Mercator meters
	// at the detail level's nominal zoom.
	MeterPerBp float64
}

// Scale multiplies all point sizes of the table. The meter conversion is
// left alone.
func (u Units) Scale(mag float64) Units {
	u.Dt *= mag
	u.Dl *= mag
	u.Sw *= mag
	u.Sh *= mag
	u.LineWidth *= mag
	u.OtherWidth *= mag
	u.MarkWidth *= mag
	u.GuideWidth *= mag
	u.BorderWidth *= mag
	u.Seg *= mag
	return u
}

// Meters converts a map distance in typographic points to Mercator meters.
func (u Units) Meters(bp float64) float64 {
	return bp * u.MeterPerBp
}

// PointUnit returns the size of one named map distance unit in typographic
// points, or false when the name is not a map unit.
func (u Units) PointUnit(name string) (float64, bool) {
	switch name {
	case "bp", "pt":
		return 1, true
	case "mm":
		return MM, true
	case "cm":
		return 10 * MM, true
	case "dt":
		return u.Dt, true
	case "dl":
		return u.Dl, true
	case "st":
		return u.LineWidth, true
	case "sw":
		return u.Sw, true
	case "sh":
		return u.Sh, true
	}
	return 0, false
}

// MapUnit returns the meter value of one named map distance unit, or false
// when the name is not a map unit.
func (u Units) MapUnit(name string) (float64, bool) {
	switch name {
	case "bp", "pt":
		return u.Meters(1), true
	case "mm":
		return u.Meters(MM), true
	case "cm":
		return u.Meters(10 * MM), true
	case "dt":
		return u.Meters(u.Dt), true
	case "dl":
		return u.Meters(u.Dl), true
	case "st":
		return u.Meters(u.LineWidth), true
	case "sw":
		return u.Meters(u.Sw), true
	case "sh":
		return u.Meters(u.Sh), true
	}
	return 0, false
}

// WorldUnit returns the meter value of one named world distance unit, or
// false when the name is not a world unit.
func WorldUnit(name string) (float64, bool) {
	switch name {
	case "m":
		return 1, true
	case "km":
		return 1000, true
	}
	return 0, false
}

func standard(dt, sw, sh float64) Units {
	return Units{
		Dt:  dt,
		Dl:  0.66 * dt,
		Seg: 6 * dt,
		Sw:  sw,
		Sh:  sh,
	}
}

// UnitsFor returns the default unit table of a detail level. The detail is
// clamped to the valid range.
func UnitsFor(detail int) Units {
	if detail < MinDetail {
		detail = MinDetail
	}
	if detail > MaxDetail {
		detail = MaxDetail
	}
	var u Units
	switch {
	case detail <= 2:
		u = standard(0.75*MM, 1.2*MM, 1.125*MM)
		u.LineWidth = 0.8
		u.OtherWidth = 0.5
		u.MarkWidth = 0.5
	case detail == 3:
		u = standard(0.6*MM, 1.2*MM, 1.35*MM)
		u.LineWidth = 1.0
		u.OtherWidth = 0.7
		u.MarkWidth = 0.7
	default:
		u = standard(0.6*MM, 2.4*MM, 2.25*MM)
		u.LineWidth = 1.1
		u.OtherWidth = 0.8
		u.MarkWidth = 0.8
	}
	u.GuideWidth = 0.3
	if detail == 4 {
		u.BorderWidth = 0.6
	} else {
		u.BorderWidth = 0.4
	}
	u.MeterPerBp = geom.TileSpan(nominalZoom[detail]) / CanvasBp
	return u
}

// Style is the resolved set of rendering constants an atlas is built with.
// It is immutable after construction and shared by all renders of the
// snapshot.
type Style struct {
	units [MaxDetail + 1]Units
}

// New returns a style with the default unit tables.
func New() *Style {
	s := &Style{}
	for d := MinDetail; d <= MaxDetail; d++ {
		s.units[d] = UnitsFor(d)
	}
	return s
}

// SetUnits replaces the unit table of one detail level. Levels outside the
// valid range are ignored.
func (s *Style) SetUnits(detail int, u Units) {
	if detail < MinDetail || detail > MaxDetail {
		return
	}
	s.units[detail] = u
}

// Units returns the unit table of a detail level, clamped to the valid
// range.
func (s *Style) Units(detail int) Units {
	if detail < MinDetail {
		detail = MinDetail
	}
	if detail > MaxDetail {
		detail = MaxDetail
	}
	return s.units[detail]
}

// UnitsAt returns the unit table used when rendering a zoom level, with the
// zoom's magnification applied.
func (s *Style) UnitsAt(zoom uint32) Units {
	return s.Units(Detail(zoom)).Scale(Magnification(zoom))
}
