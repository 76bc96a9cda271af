// Package geom provides the planar geometry the render pipeline works in.
//
// All geometry is kept in spherical Mercator (EPSG:3857) meters. Tile
// addressing follows the usual slippy-map scheme: at zoom z the world is a
// 2^z by 2^z grid of tiles, x growing east and y growing south.
package geom

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// EarthCircumference is the circumference of the Mercator world square in
// meters. Both axes of EPSG:3857 span exactly this range.
const EarthCircumference = 40075016.685578488

// MaxZoom is the highest zoom level tiles are served at.
const MaxZoom = 17

// TileBound returns the bounding box of tile (z, x, y) in Mercator meters.
func TileBound(z, x, y uint32) orb.Bound {
	wgs := maptile.New(x, y, maptile.Zoom(z)).Bound()
	return orb.Bound{
		Min: project.WGS84.ToMercator(wgs.Min),
		Max: project.WGS84.ToMercator(wgs.Max),
	}
}

// TileSpan returns the side length of a tile at zoom z in Mercator meters.
func TileSpan(z uint32) float64 {
	return EarthCircumference / float64(uint64(1)<<z)
}

// Expand grows a bound by margin meters on every side.
func Expand(b orb.Bound, margin float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.Min[0] - margin, b.Min[1] - margin},
		Max: orb.Point{b.Max[0] + margin, b.Max[1] + margin},
	}
}

// ToMercator projects a WGS84 lon/lat point into Mercator meters.
func ToMercator(lon, lat float64) orb.Point {
	return project.WGS84.ToMercator(orb.Point{lon, lat})
}
