package eval

import (
	"github.com/railmap/railmap/internal/dsl"
	"github.com/railmap/railmap/internal/feature"
	"github.com/railmap/railmap/internal/style"
)

//------------ Functions -----------------------------------------------------

// functions are callable inside expressions and return a value.
var functions map[string]func(*Evaluator, string, *Scope, *dsl.External) (Value, error)

func init() {
	functions = map[string]func(*Evaluator, string, *Scope, *dsl.External) (Value, error){
		"path": evalPathFn,
	}
}

func evalPathFn(ev *Evaluator, file string, sc *Scope, ext *dsl.External) (Value, error) {
	args, err := ev.evalArgs(file, sc, ext.Args)
	if err != nil {
		return Value{}, err
	}
	if len(args) != 1 || args[0].name != "" {
		return Value{}, errAt(file, ext.Pos, "path() takes one positional argument")
	}
	if args[0].v.Kind != KindText {
		return Value{}, errAt(file, args[0].pos, "path() needs a text, got %s", args[0].v.Kind)
	}
	p, err := ev.Store.Get(args[0].v.Text)
	if err != nil {
		return Value{}, errAt(file, args[0].pos, "%v", err)
	}
	return pathValue(p), nil
}

//------------ Procedures ----------------------------------------------------

// procedures are callable as statements and emit features.
var procedures = map[string]func(*Evaluator, *call) error{
	"track":      evalTrack,
	"line":       evalTrack,
	"marker":     evalMarker,
	"station":    evalStation,
	"line_badge": evalLineBadge,
	"badge":      evalLineBadge,
	"border":     evalBorder,
	"guide":      evalGuide,
}

type argVal struct {
	name string
	v    Value
	pos  dsl.Pos
}

type call struct {
	file string
	sc   *Scope
	node *dsl.ProcedureCall
	args []argVal
}

func (ev *Evaluator) procedure(file string, sc *Scope, node *dsl.ProcedureCall) error {
	proc, ok := procedures[node.Ident.Name]
	if !ok {
		return errAt(file, node.Pos, "unknown procedure %q", node.Ident.Name)
	}
	args, err := ev.evalArgs(file, sc, &node.Args)
	if err != nil {
		return err
	}
	return proc(ev, &call{file: file, sc: sc, node: node, args: args})
}

func (ev *Evaluator) evalArgs(file string, sc *Scope, list *dsl.ArgumentList) ([]argVal, error) {
	out := make([]argVal, 0, len(list.Arguments))
	for i := range list.Arguments {
		a := &list.Arguments[i]
		v, err := ev.expression(file, sc, &a.Expr)
		if err != nil {
			return nil, err
		}
		name := ""
		if a.Name != nil {
			name = a.Name.Name
		}
		out = append(out, argVal{name: name, v: v, pos: a.Pos})
	}
	return out, nil
}

// positional returns the positional arguments and checks their count.
func (c *call) positional(min, max int) ([]argVal, error) {
	var out []argVal
	for _, a := range c.args {
		if a.name == "" {
			out = append(out, a)
		}
	}
	if len(out) < min || len(out) > max {
		return nil, errAt(c.file, c.node.Pos,
			"%s() takes %d to %d positional arguments, got %d",
			c.node.Ident.Name, min, max, len(out))
	}
	return out, nil
}

// keyword returns a keyword argument, or false when it is absent.
func (c *call) keyword(name string) (argVal, bool) {
	for _, a := range c.args {
		if a.name == name {
			return a, true
		}
	}
	return argVal{}, false
}

func (c *call) symbolsArg(a argVal) (style.SymbolSet, error) {
	if a.v.Kind != KindSymbolSet {
		return nil, errAt(c.file, a.pos, "need a symbol set, got %s", a.v.Kind)
	}
	return a.v.Symbols, nil
}

func (c *call) routeArg(a argVal) (Value, error) {
	if a.v.Kind != KindRoute {
		return Value{}, errAt(c.file, a.pos, "need a route, got %s", a.v.Kind)
	}
	return a.v, nil
}

func (c *call) positionArg(a argVal) (Position, error) {
	if a.v.Kind != KindPosition {
		return Position{}, errAt(c.file, a.pos, "need a position, got %s", a.v.Kind)
	}
	return a.v.Position, nil
}

func (c *call) textArg(a argVal) (string, error) {
	if a.v.Kind != KindText {
		return "", errAt(c.file, a.pos, "need a text, got %s", a.v.Kind)
	}
	return a.v.Text, nil
}

// emitCtx resolves everything a feature emission needs from the scope.
func (c *call) emitCtx(ev *Evaluator) (detail int, u style.Units, pad float64, err error) {
	detail, ok := c.sc.Detail()
	if !ok {
		return 0, style.Units{}, 0,
			errAt(c.file, c.node.Pos, "%s() outside any detail level", c.node.Ident.Name)
	}
	u = ev.Style.Units(detail)
	pad = u.Meters(2 * u.Sw)
	return detail, u, pad, nil
}

func evalTrack(ev *Evaluator, c *call) error {
	return emitLine(ev, c, style.KindTrack)
}

func evalBorder(ev *Evaluator, c *call) error {
	return emitLine(ev, c, style.KindBorder)
}

func evalGuide(ev *Evaluator, c *call) error {
	return emitLine(ev, c, style.KindGuide)
}

func emitLine(ev *Evaluator, c *call, kind style.Kind) error {
	args, err := c.positional(2, 2)
	if err != nil {
		return err
	}
	class, err := c.symbolsArg(args[0])
	if err != nil {
		return err
	}
	rt, err := c.routeArg(args[1])
	if err != nil {
		return err
	}
	detail, _, pad, err := c.emitCtx(ev)
	if err != nil {
		return err
	}
	ev.Set.Add(feature.NewLine(
		kind, class, rt.Route, detail, c.sc.Z(kind.DefaultZ()), pad))
	return nil
}

func evalMarker(ev *Evaluator, c *call) error {
	args, err := c.positional(2, 2)
	if err != nil {
		return err
	}
	class, err := c.symbolsArg(args[0])
	if err != nil {
		return err
	}
	pos, err := c.positionArg(args[1])
	if err != nil {
		return err
	}
	detail, _, pad, err := c.emitCtx(ev)
	if err != nil {
		return err
	}
	name := ""
	for _, s := range class.Sorted() {
		if style.IsMarker(s) {
			name = s
			break
		}
	}
	f := feature.NewPoint(
		style.KindMarker, class, pos.Point, pos.Dir,
		detail, c.sc.Z(style.KindMarker.DefaultZ()), pad)
	f.Marker = name
	ev.Set.Add(f)
	return nil
}

func evalStation(ev *Evaluator, c *call) error {
	args, err := c.positional(3, 4)
	if err != nil {
		return err
	}
	class, err := c.symbolsArg(args[0])
	if err != nil {
		return err
	}
	pos, err := c.positionArg(args[1])
	if err != nil {
		return err
	}
	name, err := c.textArg(args[2])
	if err != nil {
		return err
	}
	texts := feature.Texts{Name: name}
	if len(args) == 4 {
		if texts.Aux, err = c.textArg(args[3]); err != nil {
			return err
		}
	}
	if a, ok := c.keyword("km"); ok {
		if texts.Aux, err = c.textArg(a); err != nil {
			return err
		}
	}
	if a, ok := c.keyword("latin"); ok {
		if texts.Latin, err = c.textArg(a); err != nil {
			return err
		}
	}
	if class.Has("left") {
		texts.Side = feature.SideLeft
	}
	detail, _, pad, err := c.emitCtx(ev)
	if err != nil {
		return err
	}
	f := feature.NewPoint(
		style.KindStation, class, pos.Point, pos.Dir,
		detail, c.sc.Z(style.KindStation.DefaultZ()), pad)
	f.Texts = texts
	ev.Set.Add(f)
	return nil
}

func evalLineBadge(ev *Evaluator, c *call) error {
	args, err := c.positional(3, 3)
	if err != nil {
		return err
	}
	class, err := c.symbolsArg(args[0])
	if err != nil {
		return err
	}
	pos, err := c.positionArg(args[1])
	if err != nil {
		return err
	}
	number, err := c.textArg(args[2])
	if err != nil {
		return err
	}
	detail, _, pad, err := c.emitCtx(ev)
	if err != nil {
		return err
	}
	f := feature.NewPoint(
		style.KindLineBadge, class, pos.Point, pos.Dir,
		detail, c.sc.Z(style.KindLineBadge.DefaultZ()), pad)
	f.Texts = feature.Texts{Name: number}
	ev.Set.Add(f)
	return nil
}
