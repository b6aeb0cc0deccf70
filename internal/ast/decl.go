package ast

import (
	"kira/internal/source"
)

// Decl is `[const] int a = ..., b[2][3] = {...};`.
type Decl struct {
	Const bool
	Defs  []VarDef
}

// VarDef is one declarator of a Decl.
type VarDef struct {
	Name     string
	NameSpan source.Span
	Dims     []ExprID // пусто для скаляра
	Init     InitID   // NoInitID без инициализатора
}

// IsArray reports whether the declarator has at least one dimension.
func (d *VarDef) IsArray() bool { return len(d.Dims) > 0 }

// Init is an initializer: a single expression or a braced list.
type Init struct {
	Span   source.Span
	IsList bool
	Expr   ExprID
	Elems  []InitID
}

type Inits struct {
	Arena *Arena[Init]
}

func NewInits(capHint uint) *Inits {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Inits{Arena: NewArena[Init](capHint)}
}

func (i *Inits) NewExpr(span source.Span, expr ExprID) InitID {
	return InitID(i.Arena.Allocate(Init{Span: span, Expr: expr}))
}

func (i *Inits) NewList(span source.Span, elems []InitID) InitID {
	return InitID(i.Arena.Allocate(Init{Span: span, IsList: true, Elems: elems}))
}

func (i *Inits) Get(id InitID) *Init {
	return i.Arena.Get(uint32(id))
}
