package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Polyline is a dense open curve in Mercator meters.
//
// Curves come out of the path store as polylines with enough vertices that
// linear interpolation between them is below rendering resolution, so all
// arc-length math here is piecewise linear.
type Polyline []orb.Point

// Length returns the total arc length of the polyline.
func (p Polyline) Length() float64 {
	var sum float64
	for i := 1; i < len(p); i++ {
		sum += Dist(p[i-1], p[i])
	}
	return sum
}

// Bound returns the axis-aligned bounding box of the polyline.
func (p Polyline) Bound() orb.Bound {
	return orb.LineString(p).Bound()
}

// PointAt returns the point at arc length s from the start. The value is
// clamped to the ends of the curve.
func (p Polyline) PointAt(s float64) orb.Point {
	if len(p) == 0 {
		return orb.Point{}
	}
	if s <= 0 {
		return p[0]
	}
	for i := 1; i < len(p); i++ {
		d := Dist(p[i-1], p[i])
		if s <= d {
			if d == 0 {
				return p[i]
			}
			t := s / d
			return Add(p[i-1], Scale(Sub(p[i], p[i-1]), t))
		}
		s -= d
	}
	return p[len(p)-1]
}

// TangentAt returns the unit tangent at arc length s, facing towards growing
// arc length. At the curve ends it returns the tangent of the first or last
// segment.
func (p Polyline) TangentAt(s float64) orb.Point {
	if len(p) < 2 {
		return orb.Point{1, 0}
	}
	if s <= 0 {
		return Normalize(Sub(p[1], p[0]))
	}
	for i := 1; i < len(p); i++ {
		d := Dist(p[i-1], p[i])
		if s <= d {
			return Normalize(Sub(p[i], p[i-1]))
		}
		s -= d
	}
	return Normalize(Sub(p[len(p)-1], p[len(p)-2]))
}

// Slice returns the sub-curve between arc lengths a and b. If b < a the
// result runs in reverse, from a backwards to b.
func (p Polyline) Slice(a, b float64) Polyline {
	if b < a {
		return p.Slice(b, a).Reverse()
	}
	total := p.Length()
	a = math.Max(a, 0)
	b = math.Min(b, total)
	if len(p) == 0 || b <= a {
		pt := p.PointAt(a)
		return Polyline{pt, pt}
	}

	out := Polyline{p.PointAt(a)}
	var walked float64
	for i := 1; i < len(p); i++ {
		walked += Dist(p[i-1], p[i])
		if walked <= a {
			continue
		}
		if walked >= b {
			break
		}
		out = append(out, p[i])
	}
	out = append(out, p.PointAt(b))
	return out
}

// Reverse returns a copy of the polyline with vertex order flipped.
func (p Polyline) Reverse() Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// Offset returns a parallel curve displaced by d meters along the left-hand
// normal. Negative d displaces to the right. Joints use the averaged normal
// of the adjacent segments, which is adequate for the gentle curvature of
// stored railway paths.
func (p Polyline) Offset(d float64) Polyline {
	if d == 0 || len(p) < 2 {
		return p
	}
	out := make(Polyline, len(p))
	for i := range p {
		var n orb.Point
		switch {
		case i == 0:
			n = LeftNormal(Sub(p[1], p[0]))
		case i == len(p)-1:
			n = LeftNormal(Sub(p[i], p[i-1]))
		default:
			n = Normalize(Add(
				LeftNormal(Sub(p[i], p[i-1])),
				LeftNormal(Sub(p[i+1], p[i])),
			))
		}
		out[i] = Add(p[i], Scale(n, d))
	}
	return out
}

// Shift translates the whole polyline by vector v.
func (p Polyline) Shift(v orb.Point) Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[i] = Add(pt, v)
	}
	return out
}

// RotateAround rotates the polyline by angle radians around center.
func (p Polyline) RotateAround(center orb.Point, angle float64) Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[i] = Add(center, Rotate(Sub(pt, center), angle))
	}
	return out
}

// HermiteJoin samples a smooth cubic between two curve ends into a polyline.
//
// p0/p1 are the join points, t0/t1 the unit tangents at those points. The
// tangent magnitude is scaled by the chord length, which reproduces the
// "smooth connector" behavior of metapost-style path joins closely enough
// for map rendering.
func HermiteJoin(p0, t0, p1, t1 orb.Point, steps int) Polyline {
	if steps < 2 {
		steps = 2
	}
	chord := Dist(p0, p1)
	m0 := Scale(Normalize(t0), chord)
	m1 := Scale(Normalize(t1), chord)
	out := make(Polyline, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		t2 := t * t
		t3 := t2 * t
		h00 := 2*t3 - 3*t2 + 1
		h10 := t3 - 2*t2 + t
		h01 := -2*t3 + 3*t2
		h11 := t3 - t2
		pt := Add(
			Add(Scale(p0, h00), Scale(m0, h10)),
			Add(Scale(p1, h01), Scale(m1, h11)),
		)
		out = append(out, pt)
	}
	return out
}
