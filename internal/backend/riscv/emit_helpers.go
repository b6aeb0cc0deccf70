package riscv

import (
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"kira/internal/ir"
)

// op writes one indented instruction line.
func (fe *funcEmitter) op(format string, args ...any) {
	fe.emitter.buf.WriteString("  ")
	fmt.Fprintf(&fe.emitter.buf, format, args...)
	fe.emitter.buf.WriteString("\n")
}

// fitsImm12 reports whether n is a signed 12-bit immediate.
func fitsImm12(n int) bool {
	imm, err := safecast.Conv[int16](n)
	return err == nil && imm >= -2048 && imm <= 2047
}

// spAddr returns a memory operand for sp+off; out-of-range offsets are
// materialised into tmp first.
func (fe *funcEmitter) spAddr(tmp string, off int) string {
	if fitsImm12(off) {
		return strconv.Itoa(off) + "(sp)"
	}
	fe.op("li %s, %d", tmp, off)
	fe.op("add %s, %s, sp", tmp, tmp)
	return "0(" + tmp + ")"
}

// loadValue puts the value of v into reg. Constants, arguments, globals
// and allocs are materialised; everything else is read from its slot.
func (fe *funcEmitter) loadValue(reg string, id ir.ValueID) error {
	e := fe.emitter
	v := e.mod.Value(id)
	if v == nil {
		return fmt.Errorf("missing value #%d", id)
	}
	switch v.Kind {
	case ir.ValueInteger:
		fe.op("li %s, %d", reg, v.Int)
		return nil
	case ir.ValueFuncArgRef:
		if v.ArgIndex < e.planner.Target.ArgRegs {
			fe.op("mv %s, a%d", reg, v.ArgIndex)
			return nil
		}
		fe.op("lw %s, %s", reg, fe.spAddr(reg, e.planner.IncomingArgOffset(fe.frame, v.ArgIndex)))
		return nil
	case ir.ValueGlobalAlloc:
		fe.op("la %s, %s", reg, symbol(v.Name))
		return nil
	}
	slot, ok := fe.frame.SlotOf(id)
	if !ok {
		return fmt.Errorf("%s #%d has no stack slot", v.Kind, id)
	}
	if v.Kind == ir.ValueAlloc {
		if fitsImm12(slot.Offset) {
			fe.op("addi %s, sp, %d", reg, slot.Offset)
		} else {
			fe.op("li %s, %d", reg, slot.Offset)
			fe.op("add %s, %s, sp", reg, reg)
		}
		return nil
	}
	fe.op("lw %s, %s", reg, fe.spAddr(reg, slot.Offset))
	return nil
}

// saveResult stores reg into the slot of id; values without users have none.
func (fe *funcEmitter) saveResult(id ir.ValueID, reg, tmp string) {
	slot, ok := fe.frame.SlotOf(id)
	if !ok {
		return
	}
	fe.op("sw %s, %s", reg, fe.spAddr(tmp, slot.Offset))
}
