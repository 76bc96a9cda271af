// Package eval lowers parsed map sources into the feature set.
//
// Evaluation happens once per atlas build. Statements execute in order;
// procedure calls emit features. A failing statement is reported and its
// features dropped, but the file keeps loading, so one broken feature
// never takes a whole region down.
package eval

import (
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"github.com/railmap/railmap/internal/dsl"
	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/geom"
	"github.com/railmap/railmap/internal/paths"
	"github.com/railmap/railmap/internal/style"
)

// Evaluator executes map sources against a path store and collects the
// resulting features.
type Evaluator struct {
	Store *paths.Store
	Style *style.Style
	Set   *feature.Set
	Log   *logrus.Logger
}

// Source parses and executes one map source file. The returned errors are
// the statements that failed; the features of all other statements are in
// the set regardless.
func (ev *Evaluator) Source(file, src string) []error {
	list, err := dsl.Parse(file, src)
	if err != nil {
		return []error{err}
	}
	return ev.exec(file, list, NewScope())
}

func (ev *Evaluator) exec(file string, list *dsl.StatementList, sc *Scope) []error {
	var errs []error
	for _, stmt := range list.Statements {
		if err := ev.statement(file, stmt, sc); err != nil {
			if ev.Log != nil {
				ev.Log.WithField("file", file).Warn(err)
			}
			errs = append(errs, err)
		}
	}
	return errs
}

func (ev *Evaluator) statement(file string, stmt dsl.Statement, sc *Scope) error {
	switch s := stmt.(type) {
	case *dsl.NoOp:
		return nil
	case *dsl.Let:
		for _, a := range s.Assignments.Assignments {
			v, err := ev.expression(file, sc, &a.Expr)
			if err != nil {
				return err
			}
			sc.Set(a.Target.Name, v)
		}
		return nil
	case *dsl.With:
		child := sc.Child()
		if err := ev.withParams(file, child, &s.Params); err != nil {
			return err
		}
		// Errors inside the block are per-statement; only report the
		// first one upward to keep the error list proportional to the
		// source.
		if errs := ev.exec(file, &s.Block, child); len(errs) > 0 {
			return errs[0]
		}
		return nil
	case *dsl.ProcedureCall:
		return ev.procedure(file, sc, s)
	}
	return nil
}

func (ev *Evaluator) withParams(file string, sc *Scope, params *dsl.AssignmentList) error {
	for _, a := range params.Assignments {
		v, err := ev.expression(file, sc, &a.Expr)
		if err != nil {
			return err
		}
		switch a.Target.Name {
		case "detail":
			if v.Kind != KindNumber {
				return errAt(file, a.Pos, "detail needs a number, got %s", v.Kind)
			}
			d := int(v.Num)
			if float64(d) != v.Num || d < style.MinDetail || d > style.MaxDetail {
				return errAt(file, a.Pos, "detail level %v out of range %d..%d",
					v.Num, style.MinDetail, style.MaxDetail)
			}
			sc.detail = d
		case "layer":
			if v.Kind != KindNumber {
				return errAt(file, a.Pos, "layer needs a number, got %s", v.Kind)
			}
			z := int(v.Num)
			if float64(z) != v.Num {
				return errAt(file, a.Pos, "layer %v is not an integer", v.Num)
			}
			sc.z = z
			sc.zSet = true
		default:
			sc.Set(a.Target.Name, v)
		}
	}
	return nil
}

// units returns the unit table of the scope's detail level. Map distances
// are meaningless before a detail level is declared.
func (ev *Evaluator) units(file string, sc *Scope, pos dsl.Pos) (style.Units, error) {
	d, ok := sc.Detail()
	if !ok {
		return style.Units{}, errAt(file, pos, "map distance before any detail level")
	}
	return ev.Style.Units(d), nil
}

//------------ Expressions ---------------------------------------------------

func (ev *Evaluator) expression(file string, sc *Scope, e *dsl.Expression) (Value, error) {
	first, err := ev.fragment(file, sc, e.First)
	if err != nil {
		return Value{}, err
	}
	if len(e.Connected) == 0 {
		return first, nil
	}

	line, err := asLine(file, first, e.Pos)
	if err != nil {
		return Value{}, err
	}
	trace := paths.NewTrace(line)
	for _, c := range e.Connected {
		v, err := ev.fragment(file, sc, c.Fragment)
		if err != nil {
			return Value{}, err
		}
		next, err := asLine(file, v, c.Fragment.Position())
		if err != nil {
			return Value{}, err
		}
		join := paths.JoinSmooth
		if c.Connector == dsl.ConnStraight {
			join = paths.JoinStraight
		}
		trace.Append(join, next)
	}
	return route(trace.Line()), nil
}

// asLine turns a route or position value into a polyline for connector
// stitching.
func asLine(file string, v Value, pos dsl.Pos) (geom.Polyline, error) {
	switch v.Kind {
	case KindRoute:
		return v.Route, nil
	case KindPosition:
		return geom.Polyline{v.Position.Point}, nil
	}
	return nil, errAt(file, pos, "cannot connect a %s into a route", v.Kind)
}

func (ev *Evaluator) fragment(file string, sc *Scope, frag dsl.Fragment) (Value, error) {
	switch f := frag.(type) {
	case *dsl.Complex:
		return ev.complex(file, sc, f)
	case *dsl.List:
		out := Value{Kind: KindList}
		for i := range f.Content {
			v, err := ev.expression(file, sc, &f.Content[i])
			if err != nil {
				return Value{}, err
			}
			out.List = append(out.List, v)
		}
		return out, nil
	case *dsl.Vector:
		x, err := ev.distanceOf(file, sc, &f.X)
		if err != nil {
			return Value{}, err
		}
		y, err := ev.distanceOf(file, sc, &f.Y)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindVector, Vec: [2]Distance{x, y}}, nil
	case *dsl.Number:
		v, err := f.Float()
		if err != nil {
			return Value{}, errAt(file, f.Pos, "bad number %q", f.Value)
		}
		return number(v), nil
	case *dsl.UnitNumber:
		d, err := ev.distanceOf(file, sc, f)
		if err != nil {
			return Value{}, err
		}
		return distance(d), nil
	case *dsl.SymbolSet:
		set := make(style.SymbolSet, len(f.Symbols))
		for _, s := range f.Symbols {
			set[s.Name] = struct{}{}
		}
		return symbols(set), nil
	case *dsl.Text:
		return text(f.Value()), nil
	}
	return Value{}, errAt(file, frag.Position(), "unsupported expression")
}

func (ev *Evaluator) complex(file string, sc *Scope, c *dsl.Complex) (Value, error) {
	base, err := ev.external(file, sc, &c.External)
	if err != nil {
		return Value{}, err
	}
	if c.Section == nil {
		return base, nil
	}
	if base.Kind != KindPath {
		return Value{}, errAt(file, c.Section.Pos,
			"section on a %s, need a path", base.Kind)
	}
	return ev.section(file, sc, base.Path, c.Section)
}

func (ev *Evaluator) external(file string, sc *Scope, ext *dsl.External) (Value, error) {
	if ext.Args != nil {
		fn, ok := functions[ext.Ident.Name]
		if !ok {
			return Value{}, errAt(file, ext.Pos, "unknown function %q", ext.Ident.Name)
		}
		return fn(ev, file, sc, ext)
	}
	if v, ok := sc.Get(ext.Ident.Name); ok {
		return v, nil
	}
	return Value{}, errAt(file, ext.Pos, "undefined variable %q", ext.Ident.Name)
}

// distanceOf converts a unit-number into a Distance. World units resolve
// directly; map units resolve into typographic points via the scope's
// detail level.
func (ev *Evaluator) distanceOf(file string, sc *Scope, un *dsl.UnitNumber) (Distance, error) {
	v, err := strconv.ParseFloat(un.Number.Value, 64)
	if err != nil {
		return Distance{}, errAt(file, un.Pos, "bad number %q", un.Number.Value)
	}
	if w, ok := style.WorldUnit(un.Unit); ok {
		return Distance{World: v * w}, nil
	}
	u := style.Units{}
	if needsDetail(un.Unit) {
		u, err = ev.units(file, sc, un.Pos)
		if err != nil {
			return Distance{}, err
		}
	}
	bp, ok := u.PointUnit(un.Unit)
	if !ok {
		return Distance{}, errAt(file, un.Pos, "unknown unit %q", un.Unit)
	}
	return Distance{Map: v * bp}, nil
}

func needsDetail(unit string) bool {
	switch unit {
	case "dt", "dl", "st", "sw", "sh":
		return true
	}
	return false
}

// meters resolves a distance to Mercator meters in the current scope.
func (ev *Evaluator) meters(file string, sc *Scope, d Distance, pos dsl.Pos) (float64, error) {
	if d.Map == 0 {
		return d.World, nil
	}
	u, err := ev.units(file, sc, pos)
	if err != nil {
		return 0, err
	}
	return d.Meters(u), nil
}

func (ev *Evaluator) vectorMeters(file string, sc *Scope, vec [2]Distance, pos dsl.Pos) (orb.Point, error) {
	x, err := ev.meters(file, sc, vec[0], pos)
	if err != nil {
		return orb.Point{}, err
	}
	y, err := ev.meters(file, sc, vec[1], pos)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

//------------ Sections ------------------------------------------------------

func (ev *Evaluator) section(file string, sc *Scope, p *paths.Path, s *dsl.Section) (Value, error) {
	start, err := ev.arcOf(file, sc, p, &s.Start)
	if err != nil {
		return Value{}, err
	}
	if s.End == nil {
		pos := Position{
			Point: p.PointAt(start),
			Dir:   geom.Angle(p.TangentAt(start)),
		}
		return ev.offsetPosition(file, sc, pos, s.Offsets)
	}
	end, err := ev.arcOf(file, sc, p, s.End)
	if err != nil {
		return Value{}, err
	}
	line := p.Segment(start, end)
	return ev.offsetLine(file, sc, line, s.Offsets)
}

// arcOf resolves a location to an arc length on the path.
func (ev *Evaluator) arcOf(file string, sc *Scope, p *paths.Path, loc *dsl.Location) (float64, error) {
	arc, err := p.Node(loc.Node.Name)
	if err != nil {
		return 0, errAt(file, loc.Pos, "%v", err)
	}
	for i := range loc.Distances {
		d := &loc.Distances[i]
		dist, err := ev.distanceOf(file, sc, &d.Value)
		if err != nil {
			return 0, err
		}
		m, err := ev.meters(file, sc, dist, d.Pos)
		if err != nil {
			return 0, err
		}
		if d.Neg {
			m = -m
		}
		arc += m
	}
	if err := p.CheckArc(arc); err != nil {
		return 0, errAt(file, loc.Pos, "%v", err)
	}
	return arc, nil
}

func (ev *Evaluator) offsetPosition(file string, sc *Scope, pos Position, offsets []dsl.Offset) (Value, error) {
	for _, off := range offsets {
		switch o := off.(type) {
		case *dsl.Sideways:
			m, err := ev.offsetMeters(file, sc, &o.Value, o.Left, o.Pos)
			if err != nil {
				return Value{}, err
			}
			tangent := orb.Point{math.Cos(pos.Dir), math.Sin(pos.Dir)}
			pos.Point = geom.Add(pos.Point, geom.Scale(geom.LeftNormal(tangent), m))
		case *dsl.Shift:
			v, err := ev.shiftMeters(file, sc, o)
			if err != nil {
				return Value{}, err
			}
			pos.Point = geom.Add(pos.Point, v)
		case *dsl.Angle:
			deg, err := o.Value.Float()
			if err != nil {
				return Value{}, errAt(file, o.Pos, "bad angle %q", o.Value.Value)
			}
			pos.Dir += deg * math.Pi / 180
		}
	}
	return position(pos), nil
}

func (ev *Evaluator) offsetLine(file string, sc *Scope, line geom.Polyline, offsets []dsl.Offset) (Value, error) {
	for _, off := range offsets {
		switch o := off.(type) {
		case *dsl.Sideways:
			m, err := ev.offsetMeters(file, sc, &o.Value, o.Left, o.Pos)
			if err != nil {
				return Value{}, err
			}
			line = line.Offset(m)
		case *dsl.Shift:
			v, err := ev.shiftMeters(file, sc, o)
			if err != nil {
				return Value{}, err
			}
			line = line.Shift(v)
		case *dsl.Angle:
			deg, err := o.Value.Float()
			if err != nil {
				return Value{}, errAt(file, o.Pos, "bad angle %q", o.Value.Value)
			}
			if len(line) > 0 {
				line = line.RotateAround(line[0], deg*math.Pi/180)
			}
		}
	}
	return route(line), nil
}

// offsetMeters resolves a sideways displacement. Left displacements are
// positive along the left-hand normal.
func (ev *Evaluator) offsetMeters(file string, sc *Scope, un *dsl.UnitNumber, left bool, pos dsl.Pos) (float64, error) {
	d, err := ev.distanceOf(file, sc, un)
	if err != nil {
		return 0, err
	}
	m, err := ev.meters(file, sc, d, pos)
	if err != nil {
		return 0, err
	}
	if !left {
		m = -m
	}
	return m, nil
}

func (ev *Evaluator) shiftMeters(file string, sc *Scope, o *dsl.Shift) (orb.Point, error) {
	x, err := ev.distanceOf(file, sc, &o.Value.X)
	if err != nil {
		return orb.Point{}, err
	}
	y, err := ev.distanceOf(file, sc, &o.Value.Y)
	if err != nil {
		return orb.Point{}, err
	}
	v, err := ev.vectorMeters(file, sc, [2]Distance{x, y}, o.Pos)
	if err != nil {
		return orb.Point{}, err
	}
	if o.Neg {
		v = geom.Scale(v, -1)
	}
	return v, nil
}
