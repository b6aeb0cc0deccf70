// Package riscv emits RISC-V 32 assembly from an IR module. Every used value
// lives in the stack slot assigned by the frame planner; t0, t1 and t2 are
// the only scratch registers and never carry a value across instructions.
package riscv

import (
	"fmt"
	"strings"

	"kira/internal/ir"
	"kira/internal/layout"
)

type Emitter struct {
	mod     *ir.Module
	planner *layout.Planner
	buf     strings.Builder
	wrote   bool
}

type funcEmitter struct {
	emitter *Emitter
	f       *ir.Func
	frame   *layout.Frame
}

// EmitModule lowers every global and defined function of mod, in definition order.
func EmitModule(mod *ir.Module, target layout.Target) (string, error) {
	if mod == nil {
		return "", nil
	}
	e := &Emitter{
		mod:     mod,
		planner: layout.New(target, mod),
	}
	if err := e.emitGlobals(); err != nil {
		return "", err
	}
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	return e.buf.String(), nil
}

// section separates top-level entities with a blank line.
func (e *Emitter) section() {
	if e.wrote {
		e.buf.WriteString("\n")
	}
	e.wrote = true
}

func (e *Emitter) emitFunctions() error {
	for _, f := range e.mod.Funcs {
		if f.IsDecl() {
			continue
		}
		if err := e.emitFunction(f); err != nil {
			return fmt.Errorf("riscv: @%s: %w", f.Name, err)
		}
	}
	return nil
}

// symbol strips the IR sigil from a global name.
func symbol(name string) string {
	return strings.TrimPrefix(name, "@")
}
