package layout

import (
	"math"
	"strconv"

	"fortio.org/safecast"

	"kira/internal/ir"
)

// plan walks the laid-out instructions once, in order.
func (p *Planner) plan(f *ir.Func) (*Frame, error) {
	t := p.Target
	fr := &Frame{
		Func:   f,
		Slots:  make(map[ir.ValueID]Slot, 32),
		Labels: make(map[ir.BlockID]string, len(f.Layout)),
	}
	type pending struct {
		id ir.ValueID
		s  Slot
	}
	var slots []pending
	for _, bb := range f.Layout {
		fr.Labels[bb] = blockLabel(f, bb)
		for _, inst := range f.Block(bb).Insts {
			v := p.Module.Value(inst)
			if v.Kind == ir.ValueCall {
				fr.HasCall = true
				fr.MaxArgs = max(fr.MaxArgs, len(v.Args))
			}
			if !p.Module.Values.HasUsers(inst) {
				continue
			}
			size := t.WordSize
			isPtr := v.Ty.IsPtr()
			if v.Kind == ir.ValueAlloc {
				size = v.Ty.Elem.Size()
				isPtr = false
			}
			if size <= 0 {
				return nil, &LayoutError{Kind: LayoutErrUnsizedSlot, Func: f.Name, Value: inst}
			}
			slots = append(slots, pending{id: inst, s: Slot{Offset: fr.LocalsSize, Size: size, IsPtr: isPtr}})
			fr.LocalsSize += size
		}
	}

	fr.OutArgs = max(0, fr.MaxArgs-t.ArgRegs) * t.WordSize
	total := fr.LocalsSize + fr.OutArgs
	if fr.HasCall {
		total += t.WordSize
	}
	fr.Size = alignUp(total, t.StackAlign)
	if _, err := safecast.Conv[int32](fr.Size); err != nil || fr.Size > math.MaxInt32-t.StackAlign {
		return nil, &LayoutError{Kind: LayoutErrFrameTooLarge, Func: f.Name, Err: err}
	}
	if fr.HasCall {
		fr.RAOffset = fr.Size - t.WordSize
	}
	// локальные слоты лежат над областью исходящих аргументов
	for _, ps := range slots {
		ps.s.Offset += fr.OutArgs
		fr.Slots[ps.id] = ps.s
	}
	return fr, nil
}

// blockLabel is deterministic and unique within the assembly file.
func blockLabel(f *ir.Func, bb ir.BlockID) string {
	return ".L" + f.Name + "_" + f.Block(bb).Name + "_" + strconv.FormatUint(uint64(bb), 10)
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}
