package eval

import (
	"github.com/paulmach/orb"

	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/paths"
	"github.com/railmap/railmap/internal/style"
)

// Kind tags the variant a Value carries.
type Kind int

const (
	KindNumber Kind = iota
	KindDistance
	KindVector
	KindSymbolSet
	KindText
	KindList
	KindPath
	KindRoute
	KindPosition
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindDistance:
		return "distance"
	case KindVector:
		return "vector"
	case KindSymbolSet:
		return "symbol set"
	case KindText:
		return "text"
	case KindList:
		return "list"
	case KindPath:
		return "path"
	case KindRoute:
		return "route"
	case KindPosition:
		return "position"
	}
	return "value"
}

// Distance is a length that may mix world and map parts. The world part is
// Mercator meters; the map part is typographic points and becomes meters
// only through a unit table.
type Distance struct {
	World float64
	Map   float64
}

// Neg returns the distance with both parts negated.
func (d Distance) Neg() Distance {
	return Distance{World: -d.World, Map: -d.Map}
}

// Add returns the sum of two distances.
func (d Distance) Add(o Distance) Distance {
	return Distance{World: d.World + o.World, Map: d.Map + o.Map}
}

// Meters resolves the distance against a unit table.
func (d Distance) Meters(u style.Units) float64 {
	return d.World + u.Meters(d.Map)
}

// Position is a resolved point with the direction of travel at it.
type Position struct {
	Point orb.Point

	// Dir is the direction in radians the underlying path runs in at the
	// point, after any angle offsets.
	Dir float64
}

// Value is the tagged variant the evaluator computes with.
type Value struct {
	Kind Kind

	Num      float64
	Dist     Distance
	Vec      [2]Distance
	Symbols  style.SymbolSet
	Text     string
	List     []Value
	Path     *paths.Path
	Route    geom.Polyline
	Position Position
}

func number(v float64) Value       { return Value{Kind: KindNumber, Num: v} }
func distance(d Distance) Value    { return Value{Kind: KindDistance, Dist: d} }
func text(s string) Value          { return Value{Kind: KindText, Text: s} }
func symbols(s style.SymbolSet) Value {
	return Value{Kind: KindSymbolSet, Symbols: s}
}
func pathValue(p *paths.Path) Value { return Value{Kind: KindPath, Path: p} }
func route(line geom.Polyline) Value {
	return Value{Kind: KindRoute, Route: line}
}
func position(p Position) Value {
	return Value{Kind: KindPosition, Position: p}
}
