package riscv

import (
	"fmt"

	"kira/internal/ir"
)

func (fe *funcEmitter) emitInst(id ir.ValueID) error {
	v := fe.emitter.mod.Value(id)
	switch v.Kind {
	case ir.ValueAlloc:
		// слот уже зарезервирован
		return nil
	case ir.ValueLoad:
		return fe.emitLoad(v)
	case ir.ValueStore:
		return fe.emitStore(v)
	case ir.ValueGetElemPtr, ir.ValueGetPtr:
		return fe.emitPtrArith(v)
	case ir.ValueBinary:
		return fe.emitBinary(v)
	case ir.ValueCall:
		return fe.emitCall(v)
	case ir.ValueJump, ir.ValueBranch, ir.ValueReturn:
		return fe.emitTerminator(v)
	}
	return fmt.Errorf("unsupported instruction %s", v.Kind)
}

// isSlotAlloc reports whether id is a local alloc, addressed directly off sp.
func (fe *funcEmitter) isSlotAlloc(id ir.ValueID) bool {
	v := fe.emitter.mod.Value(id)
	return v != nil && v.Kind == ir.ValueAlloc
}

func (fe *funcEmitter) emitLoad(v *ir.Value) error {
	if fe.isSlotAlloc(v.Src) {
		slot, ok := fe.frame.SlotOf(v.Src)
		if !ok {
			return fmt.Errorf("alloc #%d has no stack slot", v.Src)
		}
		fe.op("lw t0, %s", fe.spAddr("t0", slot.Offset))
	} else {
		// адрес в t0, затем разыменование
		if err := fe.loadValue("t0", v.Src); err != nil {
			return err
		}
		fe.op("lw t0, 0(t0)")
	}
	fe.saveResult(v.ID, "t0", "t1")
	return nil
}

func (fe *funcEmitter) emitStore(v *ir.Value) error {
	if err := fe.loadValue("t0", v.Val); err != nil {
		return err
	}
	if fe.isSlotAlloc(v.Dest) {
		slot, ok := fe.frame.SlotOf(v.Dest)
		if !ok {
			return fmt.Errorf("alloc #%d has no stack slot", v.Dest)
		}
		fe.op("sw t0, %s", fe.spAddr("t1", slot.Offset))
		return nil
	}
	if err := fe.loadValue("t1", v.Dest); err != nil {
		return err
	}
	fe.op("sw t0, 0(t1)")
	return nil
}

// emitPtrArith computes src + index*elemSize. getelemptr steps over the
// elements of the pointed-to array, getptr over the pointee itself.
func (fe *funcEmitter) emitPtrArith(v *ir.Value) error {
	src := fe.emitter.mod.Value(v.Src)
	if src == nil || !src.Ty.IsPtr() {
		return fmt.Errorf("%s #%d: source is not a pointer", v.Kind, v.ID)
	}
	elem := src.Ty.Elem
	if v.Kind == ir.ValueGetElemPtr {
		if elem.Kind != ir.TypeArray {
			return fmt.Errorf("getelemptr #%d: source does not point to an array", v.ID)
		}
		elem = elem.Elem
	}
	size := elem.Size()

	if err := fe.loadValue("t0", v.Src); err != nil {
		return err
	}
	idx := fe.emitter.mod.Value(v.Index)
	if idx != nil && idx.Kind == ir.ValueInteger && fitsImm12(int(idx.Int)*size) {
		if off := int(idx.Int) * size; off != 0 {
			fe.op("addi t0, t0, %d", off)
		}
	} else {
		if err := fe.loadValue("t1", v.Index); err != nil {
			return err
		}
		fe.op("li t2, %d", size)
		fe.op("mul t1, t1, t2")
		fe.op("add t0, t0, t1")
	}
	fe.saveResult(v.ID, "t0", "t1")
	return nil
}

// emitCall passes the first ArgRegs arguments in a0.., the rest in the
// outgoing area at the bottom of the caller's frame.
func (fe *funcEmitter) emitCall(v *ir.Value) error {
	e := fe.emitter
	regs := e.planner.Target.ArgRegs
	for i, arg := range v.Args {
		if i < regs {
			if err := fe.loadValue(fmt.Sprintf("a%d", i), arg); err != nil {
				return err
			}
			continue
		}
		if err := fe.loadValue("t0", arg); err != nil {
			return err
		}
		fe.op("sw t0, %s", fe.spAddr("t1", e.planner.OutgoingArgOffset(i)))
	}
	callee := e.mod.Func(v.Callee)
	if callee == nil {
		return fmt.Errorf("call #%d: unknown callee", v.ID)
	}
	fe.op("call %s", callee.Name)
	fe.saveResult(v.ID, "a0", "t0")
	return nil
}
