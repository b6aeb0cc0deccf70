// Package layout plans stack frames: one fixed slot per used IR value,
// the outgoing argument area and the saved return address.
package layout

import (
	"kira/internal/ir"
)

// Slot is the stack storage of one IR value.
type Slot struct {
	Offset int // from sp after the prologue
	Size   int
	// IsPtr marks a slot holding an address that must be dereferenced to reach
	// the value it designates (getelemptr/getptr results, loaded pointers).
	// Alloc slots are the storage itself and are never IsPtr.
	IsPtr bool
}

// Frame is the codegen-time view of one function.
type Frame struct {
	Func       *ir.Func
	Slots      map[ir.ValueID]Slot
	Labels     map[ir.BlockID]string
	LocalsSize int // bytes of value slots
	OutArgs    int // bytes of the outgoing argument area at the bottom of the frame
	MaxArgs    int // largest argument count over all calls
	HasCall    bool
	Size       int // total, aligned to Target.StackAlign
	RAOffset   int // valid when HasCall
}

// SlotOf returns the slot of v; values without users have none.
func (fr *Frame) SlotOf(v ir.ValueID) (Slot, bool) {
	if fr == nil {
		return Slot{}, false
	}
	s, ok := fr.Slots[v]
	return s, ok
}

// Label returns the assembly label of bb.
func (fr *Frame) Label(bb ir.BlockID) string {
	if fr == nil {
		return ""
	}
	return fr.Labels[bb]
}

// Planner computes and caches frames for one module.
type Planner struct {
	Target Target
	Module *ir.Module

	cache *cache
}

// New creates a new Planner for the specified target.
func New(target Target, m *ir.Module) *Planner {
	return &Planner{
		Target: target,
		Module: m,
		cache:  newCache(),
	}
}

// FrameOf plans f once and returns the cached frame afterwards.
func (p *Planner) FrameOf(f *ir.Func) (*Frame, error) {
	if fr, ok := p.cache.get(f); ok {
		return fr, nil
	}
	if f.IsDecl() {
		return nil, &LayoutError{Kind: LayoutErrDeclaration, Func: f.Name}
	}
	fr, err := p.plan(f)
	if err != nil {
		return nil, err
	}
	p.cache.put(f, fr)
	return fr, nil
}

// IncomingArgOffset is the sp-relative offset of stack-passed argument i (i >= ArgRegs).
func (p *Planner) IncomingArgOffset(fr *Frame, i int) int {
	return fr.Size + (i-p.Target.ArgRegs)*p.Target.WordSize
}

// OutgoingArgOffset is the sp-relative offset where the caller stores argument i (i >= ArgRegs).
func (p *Planner) OutgoingArgOffset(i int) int {
	return (i - p.Target.ArgRegs) * p.Target.WordSize
}
