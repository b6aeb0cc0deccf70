package ir

import (
	"errors"
	"fmt"
)

// Validate checks IR module invariants.
// Returns error if any invariant is violated.
func Validate(m *Module) error {
	if m == nil {
		return nil
	}
	var errs []error
	for _, g := range m.Globals {
		if v := m.Value(g); v == nil || v.Kind != ValueGlobalAlloc {
			errs = append(errs, fmt.Errorf("global %d is not a global alloc", g))
		}
	}
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		if err := validateFunc(m, f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", f.Name, err))
		}
	}
	return errors.Join(errs...)
}

func validateFunc(m *Module, f *Func) error {
	var errs []error

	// 1. entry first, end last
	if f.Layout[0] != f.Entry {
		errs = append(errs, fmt.Errorf("entry block %s is not first", BlockName(f, f.Entry)))
	}
	if f.Layout[len(f.Layout)-1] != f.End {
		errs = append(errs, fmt.Errorf("end block %s is not last", BlockName(f, f.End)))
	}

	laidOut := make(map[BlockID]bool, len(f.Layout))
	for _, bb := range f.Layout {
		if laidOut[bb] {
			errs = append(errs, fmt.Errorf("block %s laid out twice", BlockName(f, bb)))
		}
		laidOut[bb] = true
	}

	returns := 0
	for _, bb := range f.Layout {
		blk := f.Block(bb)
		// 2. exactly one terminator, last
		if len(blk.Insts) == 0 {
			errs = append(errs, fmt.Errorf("block %s is empty", BlockName(f, bb)))
			continue
		}
		for i, id := range blk.Insts {
			v := m.Value(id)
			last := i == len(blk.Insts)-1
			if v.Kind.IsTerminator() != last {
				if last {
					errs = append(errs, fmt.Errorf("block %s does not end with a terminator", BlockName(f, bb)))
				} else {
					errs = append(errs, fmt.Errorf("block %s has %s before its end", BlockName(f, bb), v.Kind))
				}
			}
			// 3. targets exist
			for _, succ := range v.Successors() {
				if !laidOut[succ] {
					errs = append(errs, fmt.Errorf("block %s jumps to missing block %d", BlockName(f, bb), succ))
				}
			}
			// 4. operands are defined
			for _, op := range v.Operands() {
				if m.Value(op) == nil {
					errs = append(errs, fmt.Errorf("block %s: %s uses undefined value %d", BlockName(f, bb), v.Kind, op))
				}
			}
			// 5. return only in the end block
			if v.Kind == ValueReturn {
				returns++
				if bb != f.End {
					errs = append(errs, fmt.Errorf("return outside end block in %s", BlockName(f, bb)))
				}
				if f.Ret.IsUnit() == v.Val.IsValid() {
					errs = append(errs, fmt.Errorf("return value does not match result type %s", f.Ret))
				}
			}
			if v.Kind == ValueAlloc && bb != f.Entry {
				errs = append(errs, fmt.Errorf("alloc outside entry block in %s", BlockName(f, bb)))
			}
		}
	}
	if returns != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one return, found %d", returns))
	}
	return errors.Join(errs...)
}
