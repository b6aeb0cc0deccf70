package riscv

import (
	"fmt"

	"kira/internal/ir"
)

func (e *Emitter) emitGlobals() error {
	for _, id := range e.mod.Globals {
		g := e.mod.Value(id)
		if g == nil || g.Kind != ir.ValueGlobalAlloc {
			return fmt.Errorf("riscv: global #%d is not a global alloc", id)
		}
		name := symbol(g.Name)
		e.section()
		fmt.Fprintf(&e.buf, "  .data\n  .globl %s\n%s:\n", name, name)
		words, err := e.initWords(g.Init, nil)
		if err != nil {
			return fmt.Errorf("riscv: global %s: %w", name, err)
		}
		e.emitWords(words)
	}
	return nil
}

// initWords flattens an initializer into row-major words.
func (e *Emitter) initWords(id ir.ValueID, out []int32) ([]int32, error) {
	v := e.mod.Value(id)
	if v == nil {
		return nil, fmt.Errorf("missing initializer #%d", id)
	}
	switch v.Kind {
	case ir.ValueInteger:
		return append(out, v.Int), nil
	case ir.ValueZeroInit:
		return append(out, make([]int32, v.Ty.Size()/4)...), nil
	case ir.ValueAggregate:
		var err error
		for _, elem := range v.Elems {
			if out, err = e.initWords(elem, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported initializer %s", v.Kind)
}

// emitWords writes .word per value and folds zero runs into .zero.
func (e *Emitter) emitWords(words []int32) {
	zeros := 0
	flush := func() {
		if zeros > 0 {
			fmt.Fprintf(&e.buf, "  .zero %d\n", zeros*4)
			zeros = 0
		}
	}
	for _, w := range words {
		if w == 0 {
			zeros++
			continue
		}
		flush()
		fmt.Fprintf(&e.buf, "  .word %d\n", w)
	}
	flush()
}
