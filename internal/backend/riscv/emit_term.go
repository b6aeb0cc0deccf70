package riscv

import (
	"fmt"

	"kira/internal/ir"
)

func (fe *funcEmitter) emitTerminator(v *ir.Value) error {
	switch v.Kind {
	case ir.ValueJump:
		fe.op("j %s", fe.frame.Label(v.Target))
		return nil
	case ir.ValueBranch:
		if err := fe.loadValue("t0", v.Cond); err != nil {
			return err
		}
		fe.op("bnez t0, %s", fe.frame.Label(v.TrueBB))
		fe.op("j %s", fe.frame.Label(v.FalseBB))
		return nil
	case ir.ValueReturn:
		if v.Val.IsValid() {
			if err := fe.loadValue("a0", v.Val); err != nil {
				return err
			}
		}
		fe.epilogue()
		return nil
	}
	return fmt.Errorf("unsupported terminator %s", v.Kind)
}
