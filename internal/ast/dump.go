package ast

import (
	"fmt"
	"strings"
)

// Dump renders the program tree as an indented outline for `kira parse`.
func Dump(b *Builder, prog *Program) string {
	d := dumper{b: b}
	for _, id := range prog.Items {
		d.item(id)
	}
	return d.sb.String()
}

type dumper struct {
	b     *Builder
	sb    strings.Builder
	depth int
}

func (d *dumper) line(format string, args ...any) {
	d.sb.WriteString(strings.Repeat("  ", d.depth))
	fmt.Fprintf(&d.sb, format, args...)
	d.sb.WriteByte('\n')
}

func (d *dumper) nested(fn func()) {
	d.depth++
	fn()
	d.depth--
}

func (d *dumper) item(id ItemID) {
	switch d.b.Items.Get(id).Kind {
	case ItemDecl:
		d.decl(d.b.Items.Decl(id))
	case ItemFunc:
		fn := d.b.Items.Func(id)
		ret := "int"
		if fn.Void {
			ret = "void"
		}
		params := make([]string, 0, len(fn.Params))
		for _, p := range fn.Params {
			s := "int " + p.Name
			if p.IsArray {
				s += "[]"
				for _, dim := range p.Dims {
					s += "[" + d.expr(dim) + "]"
				}
			}
			params = append(params, s)
		}
		d.line("Func %s %s(%s)", ret, fn.Name, strings.Join(params, ", "))
		d.nested(func() { d.stmt(fn.Body) })
	}
}

func (d *dumper) decl(decl *Decl) {
	kind := "Var"
	if decl.Const {
		kind = "Const"
	}
	for _, def := range decl.Defs {
		name := def.Name
		for _, dim := range def.Dims {
			name += "[" + d.expr(dim) + "]"
		}
		if def.Init.IsValid() {
			d.line("%s %s = %s", kind, name, d.init(def.Init))
		} else {
			d.line("%s %s", kind, name)
		}
	}
}

func (d *dumper) init(id InitID) string {
	in := d.b.Inits.Get(id)
	if !in.IsList {
		return d.expr(in.Expr)
	}
	parts := make([]string, 0, len(in.Elems))
	for _, e := range in.Elems {
		parts = append(parts, d.init(e))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *dumper) stmt(id StmtID) {
	st := d.b.Stmts.Get(id)
	switch st.Kind {
	case StmtBlock:
		d.line("Block")
		d.nested(func() {
			for _, s := range d.b.Stmts.Block(id).Stmts {
				d.stmt(s)
			}
		})
	case StmtDecl:
		d.decl(d.b.Stmts.Decl(id))
	case StmtAssign:
		a := d.b.Stmts.Assign(id)
		d.line("Assign %s = %s", d.expr(a.Target), d.expr(a.Value))
	case StmtExpr:
		e := d.b.Stmts.Expr(id)
		if e.Expr.IsValid() {
			d.line("Expr %s", d.expr(e.Expr))
		} else {
			d.line("Empty")
		}
	case StmtIf:
		data := d.b.Stmts.If(id)
		d.line("If %s", d.expr(data.Cond))
		d.nested(func() { d.stmt(data.Then) })
		if data.Else.IsValid() {
			d.line("Else")
			d.nested(func() { d.stmt(data.Else) })
		}
	case StmtWhile:
		data := d.b.Stmts.While(id)
		d.line("While %s", d.expr(data.Cond))
		d.nested(func() { d.stmt(data.Body) })
	case StmtBreak:
		d.line("Break")
	case StmtContinue:
		d.line("Continue")
	case StmtReturn:
		r := d.b.Stmts.Return(id)
		if r.Value.IsValid() {
			d.line("Return %s", d.expr(r.Value))
		} else {
			d.line("Return")
		}
	}
}

func (d *dumper) expr(id ExprID) string {
	e := d.b.Exprs.Get(id)
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ExprLit:
		lit, _ := d.b.Exprs.Literal(id)
		return fmt.Sprint(lit.Value)
	case ExprLVal:
		lv, _ := d.b.Exprs.LVal(id)
		s := lv.Name
		for _, idx := range lv.Indices {
			s += "[" + d.expr(idx) + "]"
		}
		return s
	case ExprUnary:
		u, _ := d.b.Exprs.Unary(id)
		return "(" + u.Op.String() + d.expr(u.Operand) + ")"
	case ExprBinary:
		bin, _ := d.b.Exprs.Binary(id)
		return "(" + d.expr(bin.Left) + " " + bin.Op.String() + " " + d.expr(bin.Right) + ")"
	case ExprCall:
		call, _ := d.b.Exprs.Call(id)
		args := make([]string, 0, len(call.Args))
		for _, a := range call.Args {
			args = append(args, d.expr(a))
		}
		return call.Name + "(" + strings.Join(args, ", ") + ")"
	}
	return "?"
}
