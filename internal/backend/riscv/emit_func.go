package riscv

import (
	"fmt"

	"kira/internal/ir"
)

func (e *Emitter) emitFunction(f *ir.Func) error {
	fr, err := e.planner.FrameOf(f)
	if err != nil {
		return err
	}
	fe := &funcEmitter{emitter: e, f: f, frame: fr}

	e.section()
	fmt.Fprintf(&e.buf, "  .text\n  .globl %s\n%s:\n", f.Name, f.Name)
	fe.prologue()
	for _, bb := range f.Layout {
		fmt.Fprintf(&e.buf, "%s:\n", fr.Label(bb))
		for _, inst := range f.Block(bb).Insts {
			if err := fe.emitInst(inst); err != nil {
				return err
			}
		}
	}
	return nil
}

func (fe *funcEmitter) prologue() {
	size := fe.frame.Size
	if size == 0 {
		return
	}
	fe.addSP(-size)
	if fe.frame.HasCall {
		fe.op("sw ra, %s", fe.spAddr("t0", fe.frame.RAOffset))
	}
}

func (fe *funcEmitter) epilogue() {
	size := fe.frame.Size
	if size != 0 {
		if fe.frame.HasCall {
			fe.op("lw ra, %s", fe.spAddr("t0", fe.frame.RAOffset))
		}
		fe.addSP(size)
	}
	fe.op("ret")
}

func (fe *funcEmitter) addSP(delta int) {
	if fitsImm12(delta) {
		fe.op("addi sp, sp, %d", delta)
		return
	}
	fe.op("li t0, %d", delta)
	fe.op("add sp, sp, t0")
}
