package feature

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Index answers rectangle queries over a frozen feature set.
//
// Entries carry only the feature's declaration index; the set itself stays
// the single owner of feature data.
type Index struct {
	set  *Set
	tree *rtreego.Rtree
}

type entry struct {
	rect rtreego.Rect
	idx  int
}

// Bounds implements rtreego.Spatial.
func (e entry) Bounds() rtreego.Rect {
	return e.rect
}

func rectOf(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min[0], b.Min[1]}
	lengths := []float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
	rect, _ := rtreego.NewRect(point, lengths)
	return rect
}

// BuildIndex bulk-loads an R-tree over a frozen set.
func BuildIndex(set *Set) *Index {
	spatials := make([]rtreego.Spatial, set.Len())
	for i := 0; i < set.Len(); i++ {
		spatials[i] = entry{rect: rectOf(set.At(i).Bound()), idx: i}
	}
	return &Index{
		set:  set,
		tree: rtreego.NewTree(2, 25, 50, spatials...),
	}
}

// Search returns the declaration indices of all features whose bounding box
// intersects b, in no particular order.
func (ix *Index) Search(b orb.Bound) []int {
	found := ix.tree.SearchIntersect(rectOf(b))
	out := make([]int, len(found))
	for i, sp := range found {
		out[i] = sp.(entry).idx
	}
	return out
}

// Len returns the number of indexed features.
func (ix *Index) Len() int {
	return ix.set.Len()
}
