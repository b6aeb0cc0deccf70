package ast

import (
	"kira/internal/source"
)

type Hints struct{ Items, Stmts, Exprs, Inits uint }

// Builder owns every arena of one parsed compilation unit.
type Builder struct {
	Items *Items
	Stmts *Stmts
	Exprs *Exprs
	Inits *Inits
}

func NewBuilder(hints Hints) *Builder {
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Inits == 0 {
		hints.Inits = 1 << 6
	}
	return &Builder{
		Items: NewItems(hints.Items),
		Stmts: NewStmts(hints.Stmts),
		Exprs: NewExprs(hints.Exprs),
		Inits: NewInits(hints.Inits),
	}
}

// Program is the root of the tree: global declarations and functions in source order.
type Program struct {
	File  source.FileID
	Span  source.Span
	Items []ItemID
}
