package feature

// Set is the collection of all features of one atlas. It is append-only
// while map sources load; Freeze makes it immutable, after which it may be
// shared between renders without locking.
type Set struct {
	features []Feature
	frozen   bool
}

// NewSet returns an empty, unfrozen set.
func NewSet() *Set {
	return &Set{}
}

// Add appends a feature and assigns its declaration index. Adding to a
// frozen set is a programming error.
func (s *Set) Add(f Feature) {
	if s.frozen {
		panic("feature: Add on frozen set")
	}
	f.index = len(s.features)
	s.features = append(s.features, f)
}

// Freeze makes the set immutable.
func (s *Set) Freeze() {
	s.frozen = true
}

// Len returns the number of features.
func (s *Set) Len() int {
	return len(s.features)
}

// At returns the feature with declaration index i.
func (s *Set) At(i int) *Feature {
	return &s.features[i]
}
