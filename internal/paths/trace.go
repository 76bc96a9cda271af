package paths

import "github.com/railmap/railmap/internal/geom"

// Join is the way two sub-curves of a route are connected.
type Join int

const (
	// JoinSmooth connects with a cubic matching the tangents at both
	// ends.
	JoinSmooth Join = iota

	// JoinStraight connects with a straight segment.
	JoinStraight
)

// hermiteSteps is the sample count of one smooth connector. The connectors
// in map sources span short gaps, so a fixed count keeps them below
// rendering resolution.
const hermiteSteps = 16

// Trace accumulates the sub-curves of a route expression into one
// polyline.
type Trace struct {
	line geom.Polyline
}

// NewTrace starts a trace with its first sub-curve.
func NewTrace(first geom.Polyline) *Trace {
	t := &Trace{line: make(geom.Polyline, len(first))}
	copy(t.line, first)
	return t
}

// Append connects the next sub-curve to the trace.
func (t *Trace) Append(join Join, next geom.Polyline) {
	if len(next) == 0 {
		return
	}
	if len(t.line) == 0 {
		t.line = append(t.line, next...)
		return
	}
	end := t.line[len(t.line)-1]
	if join == JoinSmooth && len(t.line) >= 2 && len(next) >= 2 {
		bridge := geom.HermiteJoin(
			end,
			geom.Sub(end, t.line[len(t.line)-2]),
			next[0],
			geom.Sub(next[1], next[0]),
			hermiteSteps,
		)
		t.line = append(t.line, bridge[1:]...)
		t.line = append(t.line, next[1:]...)
		return
	}
	// A straight join is plain concatenation; the gap between the two
	// curves becomes the connecting segment.
	if geom.Dist(end, next[0]) == 0 {
		next = next[1:]
	}
	t.line = append(t.line, next...)
}

// Line returns the assembled polyline.
func (t *Trace) Line() geom.Polyline {
	return t.line
}
