package style

import "sort"

// SymbolSet is the set of colon-prefixed tags attached to a feature.
type SymbolSet map[string]struct{}

// NewSymbolSet builds a set from symbol names.
func NewSymbolSet(names ...string) SymbolSet {
	set := make(SymbolSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether the set contains a symbol.
func (s SymbolSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the symbol names in lexical order.
func (s SymbolSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Kind classifies what a feature draws.
type Kind int

const (
	KindTrack Kind = iota
	KindMarker
	KindStation
	KindLineBadge
	KindBorder
	KindGuide
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindMarker:
		return "marker"
	case KindStation:
		return "station"
	case KindLineBadge:
		return "line_badge"
	case KindBorder:
		return "border"
	case KindGuide:
		return "guide"
	}
	return "generic"
}

// DefaultZ returns the z-order a feature kind is drawn at unless a source
// file overrides it.
func (k Kind) DefaultZ() int {
	switch k {
	case KindBorder:
		return -20
	case KindGuide:
		return -10
	case KindTrack:
		return 0
	case KindMarker:
		return 10
	case KindStation:
		return 20
	case KindLineBadge:
		return 30
	}
	return 0
}

// Class selects which of the two coloring schemes a layer uses.
type Class int

const (
	// ClassEl colors open lines by their electrification.
	ClassEl Class = iota

	// ClassPax colors open lines by their passenger service.
	ClassPax
)

// TextMode selects which name variant of a feature a layer emits.
type TextMode int

const (
	// TextLocal emits names in their local script.
	TextLocal TextMode = iota

	// TextLatin emits the latin transcription, falling back to the local
	// name when there is none.
	TextLatin
)

// Layer is one of the published tile layers. A layer decides which features
// it includes and which text variant it shows.
type Layer struct {
	Name  string
	Class Class
	Text  TextMode

	// ZMin and ZMax bound the z-orders the layer includes.
	ZMin, ZMax int

	kinds map[Kind]struct{}
}

func newLayer(name string, class Class, text TextMode, zmin, zmax int, kinds ...Kind) Layer {
	set := make(map[Kind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return Layer{Name: name, Class: class, Text: text, ZMin: zmin, ZMax: zmax, kinds: set}
}

// Accepts reports whether a feature of the given kind and z-order belongs
// to the layer.
func (l Layer) Accepts(kind Kind, z int) bool {
	if z < l.ZMin || z > l.ZMax {
		return false
	}
	_, ok := l.kinds[kind]
	return ok
}

var layers = func() map[string]Layer {
	base := []Kind{KindTrack, KindMarker, KindStation, KindGuide, KindGeneric}
	list := []Layer{
		newLayer("el", ClassEl, TextLocal, -10, 100, base...),
		newLayer("el-lat", ClassEl, TextLatin, -10, 100, base...),
		newLayer("el-num", ClassEl, TextLocal, 0, 100, KindLineBadge),
		newLayer("pax", ClassPax, TextLocal, -10, 100, base...),
		newLayer("pax-lat", ClassPax, TextLatin, -10, 100, base...),
		newLayer("pax-num", ClassPax, TextLocal, 0, 100, KindLineBadge),
		newLayer("border", ClassEl, TextLocal, -100, 0, KindBorder),
	}
	m := make(map[string]Layer, len(list))
	for _, l := range list {
		m[l.Name] = l
	}
	return m
}()

// LayerByName looks up a published layer. The second return value is false
// for unknown names.
func LayerByName(name string) (Layer, bool) {
	l, ok := layers[name]
	return l, ok
}

// LayerNames returns the published layer names in lexical order.
func LayerNames() []string {
	names := make([]string, 0, len(layers))
	for n := range layers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
