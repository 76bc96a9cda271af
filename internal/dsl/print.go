package dsl

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes the statement list back as map source. The output parses to
// an equivalent tree; white space and comments of the original input are not
// preserved.
func Fprint(w io.Writer, list *StatementList) error {
	pr := &printer{w: w}
	pr.statementList(list, "")
	return pr.err
}

// String renders the statement list as map source.
func String(list *StatementList) string {
	var b strings.Builder
	Fprint(&b, list)
	return b.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (pr *printer) print(args ...any) {
	if pr.err != nil {
		return
	}
	_, pr.err = fmt.Fprint(pr.w, args...)
}

func (pr *printer) statementList(list *StatementList, indent string) {
	for _, stmt := range list.Statements {
		pr.print(indent)
		pr.statement(stmt, indent)
		pr.print("\n")
	}
}

func (pr *printer) statement(stmt Statement, indent string) {
	switch s := stmt.(type) {
	case *Let:
		pr.print("let ")
		pr.assignmentList(&s.Assignments)
		pr.print(";")
	case *NoOp:
		pr.print(";")
	case *ProcedureCall:
		pr.print(s.Ident.Name, "(")
		pr.argumentList(&s.Args)
		pr.print(")")
	case *With:
		pr.print("with ")
		pr.assignmentList(&s.Params)
		pr.print(" {\n")
		pr.statementList(&s.Block, indent+"\t")
		pr.print(indent, "}")
	}
}

func (pr *printer) assignmentList(list *AssignmentList) {
	for i, a := range list.Assignments {
		if i > 0 {
			pr.print(", ")
		}
		pr.print(a.Target.Name, " = ")
		pr.expression(&a.Expr)
	}
}

func (pr *printer) argumentList(list *ArgumentList) {
	for i, a := range list.Arguments {
		if i > 0 {
			pr.print(", ")
		}
		if a.Name != nil {
			pr.print(a.Name.Name, " = ")
		}
		pr.expression(&a.Expr)
	}
}

func (pr *printer) expression(expr *Expression) {
	pr.fragment(expr.First)
	for _, c := range expr.Connected {
		pr.print(" ", c.Connector.String(), " ")
		pr.fragment(c.Fragment)
	}
}

func (pr *printer) fragment(frag Fragment) {
	switch f := frag.(type) {
	case *Complex:
		pr.print(f.External.Ident.Name)
		if f.External.Args != nil {
			pr.print("(")
			pr.argumentList(f.External.Args)
			pr.print(")")
		}
		if f.Section != nil {
			pr.section(f.Section)
		}
	case *List:
		pr.print("[")
		for i := range f.Content {
			if i > 0 {
				pr.print(", ")
			}
			pr.expression(&f.Content[i])
		}
		pr.print("]")
	case *Vector:
		pr.vector(f)
	case *Number:
		pr.print(f.Value)
	case *UnitNumber:
		pr.unitNumber(f)
	case *SymbolSet:
		for i, s := range f.Symbols {
			if i > 0 {
				pr.print(" ")
			}
			pr.print(":", s.Name)
		}
	case *Text:
		for i, q := range f.Parts {
			if i > 0 {
				pr.print(" ")
			}
			pr.quoted(&q)
		}
	}
}

func (pr *printer) section(s *Section) {
	pr.print("[")
	pr.location(&s.Start)
	if s.End != nil {
		pr.print(", ")
		pr.location(s.End)
	}
	pr.print("]")
	for _, off := range s.Offsets {
		pr.offset(off)
	}
}

func (pr *printer) location(loc *Location) {
	pr.print(":", loc.Node.Name)
	for _, d := range loc.Distances {
		if d.Neg {
			pr.print(" - ")
		} else {
			pr.print(" + ")
		}
		pr.unitNumber(&d.Value)
	}
}

func (pr *printer) offset(off Offset) {
	switch o := off.(type) {
	case *Sideways:
		if o.Left {
			pr.print(" << ")
		} else {
			pr.print(" >> ")
		}
		pr.unitNumber(&o.Value)
	case *Shift:
		if o.Neg {
			pr.print(" - ")
		} else {
			pr.print(" + ")
		}
		pr.vector(&o.Value)
	case *Angle:
		pr.print(" @", o.Value.Value)
	}
}

func (pr *printer) vector(v *Vector) {
	pr.print("(")
	pr.unitNumber(&v.X)
	pr.print(", ")
	pr.unitNumber(&v.Y)
	pr.print(")")
}

func (pr *printer) unitNumber(u *UnitNumber) {
	pr.print(u.Number.Value, u.Unit)
}

func (pr *printer) quoted(q *Quoted) {
	pr.print(`"`)
	for _, r := range q.Content {
		switch r {
		case '"':
			pr.print(`\"`)
		case '\\':
			pr.print(`\\`)
		case '\n':
			pr.print(`\n`)
		case '\r':
			pr.print(`\r`)
		case '\t':
			pr.print(`\t`)
		default:
			pr.print(string(r))
		}
	}
	pr.print(`"`)
}
