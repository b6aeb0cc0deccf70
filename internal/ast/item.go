package ast

import (
	"kira/internal/source"
)

type ItemKind uint8

const (
	// ItemDecl is a global `const`/`int` declaration.
	ItemDecl ItemKind = iota
	ItemFunc
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// FuncParam is `int x` or `int a[][N]...`; Dims holds the trailing known dimensions.
type FuncParam struct {
	Name    string
	Span    source.Span
	IsArray bool
	Dims    []ExprID
}

type FuncItem struct {
	Name     string
	NameSpan source.Span
	Void     bool
	Params   []FuncParam
	Body     StmtID
}

type Items struct {
	Arena *Arena[Item]
	Decls *Arena[Decl]
	Funcs *Arena[FuncItem]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Items{
		Arena: NewArena[Item](capHint),
		Decls: NewArena[Decl](capHint),
		Funcs: NewArena[FuncItem](capHint),
	}
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func (i *Items) NewDecl(span source.Span, decl Decl) ItemID {
	payload := i.Decls.Allocate(decl)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemDecl, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Decl(id ItemID) *Decl {
	it := i.Get(id)
	if it == nil || it.Kind != ItemDecl {
		return nil
	}
	return i.Decls.Get(uint32(it.Payload))
}

func (i *Items) NewFunc(span source.Span, fn FuncItem) ItemID {
	payload := i.Funcs.Allocate(fn)
	return ItemID(i.Arena.Allocate(Item{Kind: ItemFunc, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Func(id ItemID) *FuncItem {
	it := i.Get(id)
	if it == nil || it.Kind != ItemFunc {
		return nil
	}
	return i.Funcs.Get(uint32(it.Payload))
}
