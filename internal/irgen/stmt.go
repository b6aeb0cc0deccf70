package irgen

import (
	"kira/internal/ast"
	"kira/internal/ir"
	"kira/internal/scope"
)

func (fl *funcLowerer) stmt(id ast.StmtID) error {
	stmts := fl.g.tree.Stmts
	st := stmts.Get(id)
	switch st.Kind {
	case ast.StmtBlock:
		fl.g.scopes.Enter(scope.KindBlock)
		defer fl.g.scopes.Exit()
		for _, inner := range stmts.Block(id).Stmts {
			if err := fl.stmt(inner); err != nil {
				return err
			}
		}
		return nil
	case ast.StmtDecl:
		return fl.localDecl(stmts.Decl(id))
	case ast.StmtAssign:
		return fl.assign(stmts.Assign(id))
	case ast.StmtExpr:
		e := stmts.Expr(id).Expr
		if !e.IsValid() {
			return nil
		}
		_, err := fl.expr(e)
		return err
	case ast.StmtIf:
		return fl.ifStmt(stmts.If(id))
	case ast.StmtWhile:
		return fl.whileStmt(stmts.While(id))
	case ast.StmtBreak, ast.StmtContinue:
		if len(fl.loopStack) == 0 {
			return newError(ErrNotInLoop, "", st.Span)
		}
		top := fl.loopStack[len(fl.loopStack)-1]
		if st.Kind == ast.StmtBreak {
			fl.b.Jump(top.exit)
		} else {
			fl.b.Jump(top.cond)
		}
		fl.openFresh()
		return nil
	case ast.StmtReturn:
		return fl.returnStmt(stmts.Return(id), st)
	}
	return nil
}

func (fl *funcLowerer) assign(a *ast.StmtAssignData) error {
	target, err := fl.lval(a.Target)
	if err != nil {
		return err
	}
	ptr, err := fl.intoPtr(target, a.Target)
	if err != nil {
		return err
	}
	v, err := fl.expr(a.Value)
	if err != nil {
		return err
	}
	val, err := fl.intoInt(v, a.Value)
	if err != nil {
		return err
	}
	fl.b.Store(val, ptr)
	return nil
}

// returnStmt stores into the hidden slot, jumps to end and opens a fresh block.
func (fl *funcLowerer) returnStmt(r *ast.StmtReturnData, st *ast.Stmt) error {
	if r.Value.IsValid() {
		if !fl.ret.IsValid() {
			return newError(ErrRetValInVoidFunc, fl.f.Name, st.Span)
		}
		v, err := fl.expr(r.Value)
		if err != nil {
			return err
		}
		val, err := fl.intoInt(v, r.Value)
		if err != nil {
			return err
		}
		fl.b.Store(val, fl.ret)
	}
	fl.b.Jump(fl.f.End)
	fl.openFresh()
	return nil
}

func (fl *funcLowerer) ifStmt(s *ast.StmtIfData) error {
	cond, err := fl.condValue(s.Cond)
	if err != nil {
		return err
	}
	thenBB := fl.newBlock("then")
	endBB := fl.newBlock("if_end")
	elseBB := endBB
	if s.Else.IsValid() {
		elseBB = fl.newBlock("else")
	}
	fl.b.Branch(cond, thenBB, elseBB)

	fl.startBlock(thenBB)
	if err := fl.stmt(s.Then); err != nil {
		return err
	}
	fl.b.Jump(endBB)

	if s.Else.IsValid() {
		fl.startBlock(elseBB)
		if err := fl.stmt(s.Else); err != nil {
			return err
		}
		fl.b.Jump(endBB)
	}
	fl.startBlock(endBB)
	return nil
}

func (fl *funcLowerer) whileStmt(s *ast.StmtWhileData) error {
	condBB := fl.newBlock("while_cond")
	bodyBB := fl.newBlock("while_body")
	endBB := fl.newBlock("while_end")
	fl.b.Jump(condBB)

	fl.startBlock(condBB)
	cond, err := fl.condValue(s.Cond)
	if err != nil {
		return err
	}
	fl.b.Branch(cond, bodyBB, endBB)

	fl.startBlock(bodyBB)
	fl.loopStack = append(fl.loopStack, loopCtx{cond: condBB, exit: endBB})
	err = fl.stmt(s.Body)
	fl.loopStack = fl.loopStack[:len(fl.loopStack)-1]
	if err != nil {
		return err
	}
	fl.b.Jump(condBB)

	fl.startBlock(endBB)
	return nil
}

func (fl *funcLowerer) condValue(e ast.ExprID) (ir.ValueID, error) {
	v, err := fl.expr(e)
	if err != nil {
		return ir.NoValueID, err
	}
	return fl.intoInt(v, e)
}
