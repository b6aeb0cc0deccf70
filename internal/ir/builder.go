package ir

import "fmt"

// Builder appends instructions to one function at a movable insertion block.
type Builder struct {
	m  *Module
	f  *Func
	bb BlockID
}

func NewBuilder(m *Module, f *Func) *Builder {
	return &Builder{m: m, f: f}
}

func (b *Builder) Module() *Module { return b.m }
func (b *Builder) Func() *Func     { return b.f }

// SetBlock moves the insertion point to the end of bb.
func (b *Builder) SetBlock(bb BlockID) { b.bb = bb }

// Current returns the insertion block.
func (b *Builder) Current() BlockID { return b.bb }

// Terminated reports whether bb already ends with a terminator.
func (b *Builder) Terminated(bb BlockID) bool {
	blk := b.f.Block(bb)
	if blk == nil || len(blk.Insts) == 0 {
		return false
	}
	return b.m.Value(blk.Insts[len(blk.Insts)-1]).Kind.IsTerminator()
}

func (b *Builder) insert(bb BlockID, v Value) ValueID {
	blk := b.f.Block(bb)
	if blk == nil {
		panic(fmt.Errorf("ir: insert into unknown block %d of %s", bb, b.f.Name))
	}
	if b.Terminated(bb) {
		panic(fmt.Errorf("ir: insert %s after terminator in %s block %d", v.Kind, b.f.Name, bb))
	}
	v.Func = b.f.ID
	v.Block = bb
	id := b.m.Values.Allocate(v)
	blk.Insts = append(blk.Insts, id)
	return id
}

func (b *Builder) emit(v Value) ValueID {
	return b.insert(b.bb, v)
}

// Alloc reserves a local of type ty in the entry block regardless of the insertion point.
func (b *Builder) Alloc(ty *Type, name string) ValueID {
	return b.insert(b.f.Entry, Value{Kind: ValueAlloc, Ty: PtrTo(ty), Name: name})
}

func (b *Builder) Load(src ValueID) ValueID {
	return b.emit(Value{Kind: ValueLoad, Ty: b.m.Value(src).Ty.Elem, Src: src})
}

func (b *Builder) Store(val, dest ValueID) ValueID {
	return b.emit(Value{Kind: ValueStore, Ty: Unit(), Val: val, Dest: dest})
}

// GetElemPtr turns *[T, n] into *T pointing at element idx.
func (b *Builder) GetElemPtr(src, idx ValueID) ValueID {
	srcTy := b.m.Value(src).Ty
	return b.emit(Value{Kind: ValueGetElemPtr, Ty: PtrTo(srcTy.Elem.Elem), Src: src, Index: idx})
}

// GetPtr offsets a *T by idx elements of T.
func (b *Builder) GetPtr(src, idx ValueID) ValueID {
	return b.emit(Value{Kind: ValueGetPtr, Ty: b.m.Value(src).Ty, Src: src, Index: idx})
}

func (b *Builder) Binary(op BinaryOp, lhs, rhs ValueID) ValueID {
	return b.emit(Value{Kind: ValueBinary, Ty: I32(), Op: op, Lhs: lhs, Rhs: rhs})
}

func (b *Builder) Call(callee *Func, args []ValueID) ValueID {
	return b.emit(Value{Kind: ValueCall, Ty: callee.Ret, Callee: callee.ID, Args: args})
}

func (b *Builder) Jump(target BlockID) ValueID {
	id := b.emit(Value{Kind: ValueJump, Ty: Unit(), Target: target})
	b.f.addBlockUser(target, id)
	return id
}

func (b *Builder) Branch(cond ValueID, t, f BlockID) ValueID {
	id := b.emit(Value{Kind: ValueBranch, Ty: Unit(), Cond: cond, TrueBB: t, FalseBB: f})
	b.f.addBlockUser(t, id)
	b.f.addBlockUser(f, id)
	return id
}

// Return ends the current block; val may be NoValueID.
func (b *Builder) Return(val ValueID) ValueID {
	return b.emit(Value{Kind: ValueReturn, Ty: Unit(), Val: val})
}

// JumpAt appends a jump to bb without moving the insertion point.
func (b *Builder) JumpAt(bb, target BlockID) ValueID {
	saved := b.bb
	b.bb = bb
	id := b.Jump(target)
	b.bb = saved
	return id
}
