package ir

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Block is a basic block: an ordered instruction list whose last entry is its only terminator.
type Block struct {
	ID    BlockID
	Name  string // hint used for labels: "entry", "then", "while_cond", ...
	Insts []ValueID
}

// Func is a function definition or, when it has no blocks, a declaration.
type Func struct {
	ID     FuncID
	Name   string
	Params []*Type
	Ret    *Type
	Args   []ValueID // FuncArgRef per parameter

	Blocks []*Block  // arena, indexed by BlockID-1
	Layout []BlockID // emission order
	Entry  BlockID
	End    BlockID

	blockUsers map[BlockID][]ValueID
}

// IsDecl reports whether f is an external declaration.
func (f *Func) IsDecl() bool {
	return len(f.Layout) == 0
}

func (f *Func) Type() *Type {
	return FuncType(f.Params, f.Ret)
}

// NewBlock allocates a block without laying it out.
func (f *Func) NewBlock(name string) BlockID {
	n, err := safecast.Conv[uint32](len(f.Blocks) + 1)
	if err != nil {
		panic(fmt.Errorf("block arena overflow: %w", err))
	}
	id := BlockID(n)
	f.Blocks = append(f.Blocks, &Block{ID: id, Name: name})
	return id
}

// AppendBlock allocates a block and appends it to the layout.
func (f *Func) AppendBlock(name string) BlockID {
	id := f.NewBlock(name)
	f.Layout = append(f.Layout, id)
	return id
}

// Place appends an existing block to the layout.
func (f *Func) Place(id BlockID) {
	f.Layout = append(f.Layout, id)
}

func (f *Func) Block(id BlockID) *Block {
	if id == NoBlockID || int(id) > len(f.Blocks) {
		return nil
	}
	return f.Blocks[id-1]
}

// BlockUsers returns the terminators that target id.
func (f *Func) BlockUsers(id BlockID) []ValueID {
	return f.blockUsers[id]
}

// RemoveFromLayout drops id from the emission order.
func (f *Func) RemoveFromLayout(id BlockID) {
	f.Layout = slices.DeleteFunc(f.Layout, func(b BlockID) bool { return b == id })
}

func (f *Func) addBlockUser(target BlockID, user ValueID) {
	if f.blockUsers == nil {
		f.blockUsers = make(map[BlockID][]ValueID)
	}
	f.blockUsers[target] = append(f.blockUsers[target], user)
}
