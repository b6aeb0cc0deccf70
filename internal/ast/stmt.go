package ast

import (
	"kira/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtDecl
	StmtAssign
	// StmtExpr covers both `e;` and the empty statement `;` (Expr == NoExprID).
	StmtExpr
	StmtIf
	StmtWhile
	StmtBreak
	StmtContinue
	StmtReturn
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtBlockData struct {
	Stmts []StmtID
}

type StmtAssignData struct {
	Target ExprID // всегда ExprLVal
	Value  ExprID
}

type StmtExprData struct {
	Expr ExprID
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID // NoStmtID если нет else
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtReturnData struct {
	Value ExprID // NoExprID для `return;`
}

type Stmts struct {
	Arena   *Arena[Stmt]
	Blocks  *Arena[StmtBlockData]
	Decls   *Arena[Decl]
	Assigns *Arena[StmtAssignData]
	Exprs   *Arena[StmtExprData]
	Ifs     *Arena[StmtIfData]
	Whiles  *Arena[StmtWhileData]
	Returns *Arena[StmtReturnData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:   NewArena[Stmt](capHint),
		Blocks:  NewArena[StmtBlockData](capHint),
		Decls:   NewArena[Decl](capHint),
		Assigns: NewArena[StmtAssignData](capHint),
		Exprs:   NewArena[StmtExprData](capHint),
		Ifs:     NewArena[StmtIfData](capHint),
		Whiles:  NewArena[StmtWhileData](capHint),
		Returns: NewArena[StmtReturnData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Stmts: stmts}))
}

func (s *Stmts) Block(id StmtID) *StmtBlockData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtBlock {
		return nil
	}
	return s.Blocks.Get(uint32(st.Payload))
}

func (s *Stmts) NewDecl(span source.Span, decl Decl) StmtID {
	return s.new(StmtDecl, span, s.Decls.Allocate(decl))
}

func (s *Stmts) Decl(id StmtID) *Decl {
	st := s.Get(id)
	if st == nil || st.Kind != StmtDecl {
		return nil
	}
	return s.Decls.Get(uint32(st.Payload))
}

func (s *Stmts) NewAssign(span source.Span, target, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(StmtAssignData{Target: target, Value: value}))
}

func (s *Stmts) Assign(id StmtID) *StmtAssignData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtAssign {
		return nil
	}
	return s.Assigns.Get(uint32(st.Payload))
}

func (s *Stmts) NewExpr(span source.Span, expr ExprID) StmtID {
	return s.new(StmtExpr, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) Expr(id StmtID) *StmtExprData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil
	}
	return s.Exprs.Get(uint32(st.Payload))
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els}))
}

func (s *Stmts) If(id StmtID) *StmtIfData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtIf {
		return nil
	}
	return s.Ifs.Get(uint32(st.Payload))
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body}))
}

func (s *Stmts) While(id StmtID) *StmtWhileData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtWhile {
		return nil
	}
	return s.Whiles.Get(uint32(st.Payload))
}

func (s *Stmts) NewBreak(span source.Span) StmtID    { return s.new(StmtBreak, span, 0) }
func (s *Stmts) NewContinue(span source.Span) StmtID { return s.new(StmtContinue, span, 0) }

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) *StmtReturnData {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil
	}
	return s.Returns.Get(uint32(st.Payload))
}
