package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"kira/internal/ast"
	"kira/internal/ir"
	"kira/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) prog.Span is non-empty and within file content bounds
// 2) every item span is non-empty and fully contained in prog.Span
// 3) prog.Span covers the union of item spans (if any items exist)
func CheckSpanInvariants(b *ast.Builder, prog *ast.Program, sf *source.File) error {
	if b == nil || prog == nil || sf == nil {
		return fmt.Errorf("nil builder, program or file")
	}

	// 1) program span sanity
	if prog.Span.End <= prog.Span.Start && len(sf.Content) > 0 {
		return fmt.Errorf("program span is empty: %v", prog.Span)
	}
	if prog.Span.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", prog.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if prog.Span.End > lenContent {
		return fmt.Errorf("program span end beyond content: %d > %d", prog.Span.End, lenContent)
	}

	// 2) item spans within program span; 3) program covers union
	var union source.Span
	var haveItem bool
	for _, it := range prog.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if sp.Start < prog.Span.Start || sp.End > prog.Span.End {
			return fmt.Errorf("item span %v is outside program span %v", sp, prog.Span)
		}
		if !haveItem {
			union = sp
			haveItem = true
		} else {
			union = union.Cover(sp)
		}
	}
	if haveItem && (union.Start < prog.Span.Start || union.End > prog.Span.End) {
		return fmt.Errorf("program span %v does not cover union of items %v", prog.Span, union)
	}
	return nil
}

// CheckIRInvariants validates m and additionally checks, per defined function:
// 1) exactly one return, located in the end block, which is laid out last
// 2) no branch or jump targets the entry block
// 3) every instruction with users produces a value (non-unit type)
func CheckIRInvariants(m *ir.Module) error {
	if m == nil {
		return fmt.Errorf("nil module")
	}
	if err := ir.Validate(m); err != nil {
		return err
	}
	var errs []error
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		if f.Layout[len(f.Layout)-1] != f.End {
			errs = append(errs, fmt.Errorf("@%s: end block is not last", f.Name))
		}
		if n := len(f.BlockUsers(f.Entry)); n != 0 {
			errs = append(errs, fmt.Errorf("@%s: entry block has %d predecessors", f.Name, n))
		}
		returns := 0
		for _, bb := range f.Layout {
			for _, inst := range f.Block(bb).Insts {
				v := m.Value(inst)
				if v.Kind == ir.ValueReturn {
					returns++
				}
				if m.Values.HasUsers(inst) && v.Ty.IsUnit() {
					errs = append(errs, fmt.Errorf("@%s: unit value %s has users", f.Name, v.Kind))
				}
			}
		}
		if returns != 1 {
			errs = append(errs, fmt.Errorf("@%s: %d returns, want 1", f.Name, returns))
		}
	}
	return errors.Join(errs...)
}
