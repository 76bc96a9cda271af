package feature

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/style"
)

// overscanBp is the margin around a tile, in typographic points at the
// tile's own scale, that the scene query covers. It must stay larger than
// any stroke width plus the label box features can bleed across tile
// edges.
const overscanBp = 24.0

// Scene is everything one tile render needs, pinned to a single atlas
// snapshot. Features are ordered by (z, declaration index).
type Scene struct {
	Layer    style.Layer
	Zoom     uint32
	Bound    orb.Bound
	Units    style.Units
	Features []*Feature
}

// Assemble builds the scene of one tile. It queries the index with an
// overscan margin, filters by the layer predicate and the zoom's detail
// level, and sorts the survivors into drawing order.
func Assemble(set *Set, ix *Index, st *style.Style, layer style.Layer, z, x, y uint32) Scene {
	bound := geom.TileBound(z, x, y)
	margin := geom.TileSpan(z) * overscanBp / style.CanvasBp
	detail := style.Detail(z)

	var features []*Feature
	for _, idx := range ix.Search(geom.Expand(bound, margin)) {
		f := set.At(idx)
		if f.Detail != detail {
			continue
		}
		if !layer.Accepts(f.Kind, f.Z) {
			continue
		}
		features = append(features, f)
	}
	sort.SliceStable(features, func(i, j int) bool {
		if features[i].Z != features[j].Z {
			return features[i].Z < features[j].Z
		}
		return features[i].index < features[j].index
	})

	return Scene{
		Layer:    layer,
		Zoom:     z,
		Bound:    bound,
		Units:    st.UnitsAt(z),
		Features: features,
	}
}
