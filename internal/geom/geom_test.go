package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

const tol = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestTileBoundWorld(t *testing.T) {
	half := EarthCircumference / 2
	b := TileBound(0, 0, 0)
	if !near(b.Min[0], -half) || !near(b.Max[0], half) {
		t.Errorf("world tile x range = [%v, %v], want ±%v", b.Min[0], b.Max[0], half)
	}
	if !near(b.Min[1], -half) || !near(b.Max[1], half) {
		t.Errorf("world tile y range = [%v, %v], want ±%v", b.Min[1], b.Max[1], half)
	}
}

func TestTileBoundAntimeridian(t *testing.T) {
	// The easternmost tile at the highest served zoom ends exactly at the
	// antimeridian edge of the Mercator square.
	last := uint32(1<<MaxZoom - 1)
	b := TileBound(MaxZoom, last, last/2)
	if !near(b.Max[0], EarthCircumference/2) {
		t.Errorf("east edge = %v, want %v", b.Max[0], EarthCircumference/2)
	}
	if !near(b.Max[0]-b.Min[0], TileSpan(MaxZoom)) {
		t.Errorf("width = %v, want %v", b.Max[0]-b.Min[0], TileSpan(MaxZoom))
	}
}

func TestTileSpanHalves(t *testing.T) {
	for z := uint32(1); z <= MaxZoom; z++ {
		if !near(TileSpan(z-1), 2*TileSpan(z)) {
			t.Fatalf("span(%d) = %v, span(%d) = %v", z-1, TileSpan(z-1), z, TileSpan(z))
		}
	}
}

func TestTileBoundAdjacency(t *testing.T) {
	a := TileBound(13, 4000, 2000)
	east := TileBound(13, 4001, 2000)
	if !near(a.Max[0], east.Min[0]) {
		t.Errorf("east edge %v != west edge of neighbor %v", a.Max[0], east.Min[0])
	}
}

func TestExpand(t *testing.T) {
	b := Expand(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, 5)
	want := orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{15, 15}}
	if b != want {
		t.Errorf("expand = %v, want %v", b, want)
	}
}

func TestPolylineArcLength(t *testing.T) {
	p := Polyline{{0, 0}, {3, 0}, {3, 4}}
	if got := p.Length(); !near(got, 7) {
		t.Errorf("length = %v, want 7", got)
	}
	if got := p.PointAt(3); got != (orb.Point{3, 0}) {
		t.Errorf("point at vertex = %v", got)
	}
	if got := p.PointAt(5); got != (orb.Point{3, 2}) {
		t.Errorf("point mid-segment = %v", got)
	}
	// Clamped at both ends.
	if got := p.PointAt(-1); got != (orb.Point{0, 0}) {
		t.Errorf("point before start = %v", got)
	}
	if got := p.PointAt(100); got != (orb.Point{3, 4}) {
		t.Errorf("point past end = %v", got)
	}
}

func TestPolylineTangent(t *testing.T) {
	p := Polyline{{0, 0}, {3, 0}, {3, 4}}
	if got := p.TangentAt(1); got != (orb.Point{1, 0}) {
		t.Errorf("tangent on first segment = %v", got)
	}
	if got := p.TangentAt(5); got != (orb.Point{0, 1}) {
		t.Errorf("tangent on second segment = %v", got)
	}
}

func TestPolylineSlice(t *testing.T) {
	p := Polyline{{0, 0}, {10, 0}}
	s := p.Slice(2, 6)
	if len(s) != 2 || s[0] != (orb.Point{2, 0}) || s[1] != (orb.Point{6, 0}) {
		t.Errorf("slice = %v", s)
	}
	// Reversed bounds run the sub-curve backwards.
	r := p.Slice(6, 2)
	if r[0] != (orb.Point{6, 0}) || r[len(r)-1] != (orb.Point{2, 0}) {
		t.Errorf("reverse slice = %v", r)
	}
}

func TestPolylineOffset(t *testing.T) {
	p := Polyline{{0, 0}, {10, 0}}
	left := p.Offset(2)
	if left[0] != (orb.Point{0, 2}) || left[1] != (orb.Point{10, 2}) {
		t.Errorf("left offset = %v", left)
	}
	right := p.Offset(-2)
	if right[0] != (orb.Point{0, -2}) || right[1] != (orb.Point{10, -2}) {
		t.Errorf("right offset = %v", right)
	}
}

func TestLeftNormal(t *testing.T) {
	n := LeftNormal(orb.Point{5, 0})
	if !near(n[0], 0) || !near(n[1], 1) {
		t.Errorf("left normal of east = %v, want north", n)
	}
}

func TestHermiteJoinEndpoints(t *testing.T) {
	p0 := orb.Point{0, 0}
	p1 := orb.Point{100, 0}
	j := HermiteJoin(p0, orb.Point{1, 0}, p1, orb.Point{1, 0}, 16)
	if j[0] != p0 || j[len(j)-1] != p1 {
		t.Fatalf("join ends = %v, %v", j[0], j[len(j)-1])
	}
	// Matching straight tangents give a straight join.
	for _, pt := range j {
		if math.Abs(pt[1]) > tol {
			t.Fatalf("straight join deviates at %v", pt)
		}
	}
}
