// Package paths keeps the stored path corpus and resolves symbolic
// positions on it.
//
// A stored path is an immutable polyline in Mercator meters with named
// nodes at known arc lengths. Map sources refer to geometry exclusively
// through these names; everything else is derived by arc-length math.
package paths

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/geom"
)

// Path is a named, immutable curve with named positions along it.
type Path struct {
	id    string
	line  geom.Polyline
	cum   []float64
	nodes map[string]float64
}

// New builds a path from a polyline and a map of node names to vertex
// indices. Indices outside the polyline are dropped.
func New(id string, line geom.Polyline, nodeIndex map[string]int) *Path {
	p := &Path{
		id:    id,
		line:  line,
		cum:   make([]float64, len(line)),
		nodes: make(map[string]float64, len(nodeIndex)),
	}
	for i := 1; i < len(line); i++ {
		p.cum[i] = p.cum[i-1] + geom.Dist(line[i-1], line[i])
	}
	for name, idx := range nodeIndex {
		if idx >= 0 && idx < len(line) {
			p.nodes[name] = p.cum[idx]
		}
	}
	return p
}

// ID returns the path's identifier.
func (p *Path) ID() string { return p.id }

// Length returns the total arc length in meters.
func (p *Path) Length() float64 {
	if len(p.cum) == 0 {
		return 0
	}
	return p.cum[len(p.cum)-1]
}

// Line returns the path's polyline. Callers must not modify it.
func (p *Path) Line() geom.Polyline { return p.line }

// Bound returns the path's bounding box.
func (p *Path) Bound() orb.Bound { return p.line.Bound() }

// Node returns the arc length of a named node.
func (p *Path) Node(name string) (float64, error) {
	s, ok := p.nodes[name]
	if !ok {
		return 0, &ErrUnknownNode{Path: p.id, Node: name}
	}
	return s, nil
}

// segment returns the index i such that the vertex span [i-1, i] covers arc
// length s.
func (p *Path) segment(s float64) int {
	i := sort.SearchFloat64s(p.cum, s)
	if i < 1 {
		i = 1
	}
	if i >= len(p.cum) {
		i = len(p.cum) - 1
	}
	return i
}

// PointAt returns the point at arc length s. The arc is clamped to the
// curve.
func (p *Path) PointAt(s float64) orb.Point {
	if len(p.line) == 0 {
		return orb.Point{}
	}
	if len(p.line) == 1 || s <= 0 {
		return p.line[0]
	}
	if s >= p.Length() {
		return p.line[len(p.line)-1]
	}
	i := p.segment(s)
	d := p.cum[i] - p.cum[i-1]
	if d == 0 {
		return p.line[i]
	}
	t := (s - p.cum[i-1]) / d
	return geom.Add(p.line[i-1], geom.Scale(geom.Sub(p.line[i], p.line[i-1]), t))
}

// TangentAt returns the unit tangent at arc length s, facing towards
// growing arc length.
func (p *Path) TangentAt(s float64) orb.Point {
	if len(p.line) < 2 {
		return orb.Point{1, 0}
	}
	i := p.segment(s)
	return geom.Normalize(geom.Sub(p.line[i], p.line[i-1]))
}

// CheckArc verifies that an arc length lies on the curve, with a small
// tolerance for accumulated float error at the ends.
func (p *Path) CheckArc(s float64) error {
	const eps = 1e-6
	if s < -eps || s > p.Length()+eps {
		return &ErrArcRange{Path: p.id, Arc: s, Length: p.Length()}
	}
	return nil
}

// Segment returns the sub-curve between arc lengths a and b. When b < a
// the result runs from a backwards to b.
func (p *Path) Segment(a, b float64) geom.Polyline {
	return p.line.Slice(a, b)
}
