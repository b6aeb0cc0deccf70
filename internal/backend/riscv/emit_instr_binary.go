package riscv

import (
	"kira/internal/ir"
)

// binaryOps maps an opcode to the instruction sequence computing t0 = t0 op t1.
var binaryOps = map[ir.BinaryOp][]string{
	ir.OpAdd:   {"add t0, t0, t1"},
	ir.OpSub:   {"sub t0, t0, t1"},
	ir.OpMul:   {"mul t0, t0, t1"},
	ir.OpDiv:   {"div t0, t0, t1"},
	ir.OpMod:   {"rem t0, t0, t1"},
	ir.OpLt:    {"slt t0, t0, t1"},
	ir.OpGt:    {"sgt t0, t0, t1"},
	ir.OpEq:    {"xor t0, t0, t1", "seqz t0, t0"},
	ir.OpNotEq: {"xor t0, t0, t1", "snez t0, t0"},
	ir.OpGe:    {"slt t0, t0, t1", "seqz t0, t0"},
	ir.OpLe:    {"sgt t0, t0, t1", "seqz t0, t0"},
}

func (fe *funcEmitter) emitBinary(v *ir.Value) error {
	if err := fe.loadValue("t0", v.Lhs); err != nil {
		return err
	}
	if err := fe.loadValue("t1", v.Rhs); err != nil {
		return err
	}
	for _, ins := range binaryOps[v.Op] {
		fe.op("%s", ins)
	}
	fe.saveResult(v.ID, "t0", "t2")
	return nil
}
