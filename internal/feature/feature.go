// Package feature holds the drawable features an atlas is built from and
// assembles per-tile scenes over them.
//
// Features are created by the evaluator while map sources load, collected
// into a Set, and frozen. After freezing a bulk-loaded R-tree over the
// feature bounding boxes answers the only query the render path needs:
// which features intersect a tile.
package feature

import (
	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/style"
)

// Side selects which side of a path a label is placed on.
type Side int

const (
	SideRight Side = iota
	SideLeft
)

// Texts carries the text payloads of station and badge features.
type Texts struct {
	// Name is the local-script name, Latin its transcription. Layers in
	// latin text mode prefer Latin and fall back to Name.
	Name  string
	Latin string

	// Aux is the second label line, usually a kilometer value or a
	// sub-line annotation.
	Aux string

	Side Side
}

// Display returns the name variant a text mode emits.
func (t Texts) Display(mode style.TextMode) string {
	if mode == style.TextLatin && t.Latin != "" {
		return t.Latin
	}
	return t.Name
}

// Feature is one drawable element. Geometry is fully resolved to Mercator
// meters when the feature is built; rendering never goes back to the path
// store.
type Feature struct {
	Kind    style.Kind
	Symbols style.SymbolSet
	Texts   Texts

	// Line is the resolved curve of track, border, and guide features.
	Line geom.Polyline

	// Anchor and Angle place point features. Angle is radians against
	// the x axis: the path tangent direction at the anchor plus any angle
	// offsets. Markers are drawn rotated to it.
	Anchor orb.Point
	Angle  float64

	// Marker names the pictogram of marker features.
	Marker string

	// Detail is the single detail level the feature is visible at.
	Detail int

	// Z orders drawing within a layer.
	Z int

	bbox  orb.Bound
	index int
}

// NewLine builds a line feature. The bounding box is the curve's box grown
// by pad meters so strokes stay inside it.
func NewLine(kind style.Kind, symbols style.SymbolSet, line geom.Polyline, detail, z int, pad float64) Feature {
	return Feature{
		Kind:    kind,
		Symbols: symbols,
		Line:    line,
		Detail:  detail,
		Z:       z,
		bbox:    geom.Expand(line.Bound(), pad),
	}
}

// NewPoint builds a point feature. The bounding box is the anchor grown by
// pad meters, which keeps it non-empty.
func NewPoint(kind style.Kind, symbols style.SymbolSet, anchor orb.Point, angle float64, detail, z int, pad float64) Feature {
	return Feature{
		Kind:    kind,
		Symbols: symbols,
		Anchor:  anchor,
		Angle:   angle,
		Detail:  detail,
		Z:       z,
		bbox:    geom.Expand(orb.Bound{Min: anchor, Max: anchor}, pad),
	}
}

// Bound returns the feature's bounding box in Mercator meters.
func (f *Feature) Bound() orb.Bound {
	return f.bbox
}

// Index returns the feature's position in declaration order.
func (f *Feature) Index() int {
	return f.index
}
