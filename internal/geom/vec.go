package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Vector helpers on orb.Point. orb treats points as [2]float64 values, so
// these stay allocation free.

func Add(a, b orb.Point) orb.Point {
	return orb.Point{a[0] + b[0], a[1] + b[1]}
}

func Sub(a, b orb.Point) orb.Point {
	return orb.Point{a[0] - b[0], a[1] - b[1]}
}

func Scale(a orb.Point, f float64) orb.Point {
	return orb.Point{a[0] * f, a[1] * f}
}

func Dist(a, b orb.Point) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

// Normalize returns the unit vector of a, or the zero vector if a is zero.
func Normalize(a orb.Point) orb.Point {
	l := math.Hypot(a[0], a[1])
	if l == 0 {
		return orb.Point{}
	}
	return orb.Point{a[0] / l, a[1] / l}
}

// LeftNormal returns the unit normal to the left of the direction of travel.
//
// Mercator meters have y growing north, so the left-hand normal of a tangent
// (dx, dy) is (-dy, dx).
func LeftNormal(t orb.Point) orb.Point {
	n := Normalize(t)
	return orb.Point{-n[1], n[0]}
}

// Rotate rotates vector a by angle radians counter-clockwise.
func Rotate(a orb.Point, angle float64) orb.Point {
	sin, cos := math.Sincos(angle)
	return orb.Point{
		a[0]*cos - a[1]*sin,
		a[0]*sin + a[1]*cos,
	}
}

// Angle returns the direction of vector a in radians.
func Angle(a orb.Point) float64 {
	return math.Atan2(a[1], a[0])
}
