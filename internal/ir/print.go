package ir

import (
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"
)

// DumpModule writes the module as Koopa-style IR text.
func DumpModule(w io.Writer, m *Module) error {
	if w == nil || m == nil {
		return nil
	}
	p := printer{m: m, w: w, names: make(map[ValueID]string), taken: make(map[string]int)}
	for _, f := range m.Funcs {
		if f.IsDecl() {
			p.printf("decl @%s(%s)%s\n", f.Name, joinTypes(f.Params), retSuffix(f.Ret))
		}
	}
	if len(m.Globals) > 0 {
		p.sep()
	}
	for _, g := range m.Globals {
		v := m.Value(g)
		p.printf("global %s = alloc %s, %s\n", p.name(g), v.Ty.Elem, p.operand(v.Init))
	}
	p.globals = maps.Clone(p.taken)
	for _, f := range m.Funcs {
		if f.IsDecl() {
			continue
		}
		p.sep()
		p.dumpFunc(f)
	}
	return p.err
}

func (m *Module) String() string {
	var sb strings.Builder
	_ = DumpModule(&sb, m)
	return sb.String()
}

// BlockName is the IR label of a block: its hint plus its id.
func BlockName(f *Func, id BlockID) string {
	blk := f.Block(id)
	if blk == nil {
		return "?"
	}
	return blk.Name + "_" + strconv.FormatUint(uint64(id), 10)
}

type printer struct {
	m     *Module
	w     io.Writer
	err   error
	names map[ValueID]string
	taken map[string]int
	// globals holds the names taken at module scope; each function starts from it.
	globals map[string]int
	next    int // счётчик анонимных %N внутри функции
	wrote   bool
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	p.wrote = true
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// sep отделяет секции пустой строкой, но не в начале вывода.
func (p *printer) sep() {
	if p.wrote {
		p.printf("\n")
	}
}

func (p *printer) dumpFunc(f *Func) {
	p.next = 0
	p.taken = maps.Clone(p.globals)
	params := make([]string, len(f.Args))
	for i, a := range f.Args {
		params[i] = p.name(a) + ": " + f.Params[i].String()
	}
	p.printf("fun @%s(%s)%s {\n", f.Name, strings.Join(params, ", "), retSuffix(f.Ret))
	for _, bb := range f.Layout {
		p.printf("%%%s:\n", BlockName(f, bb))
		for _, inst := range f.Block(bb).Insts {
			p.printf("  %s\n", p.inst(f, inst))
		}
	}
	p.printf("}\n")
}

// name returns a unique printable name for v, assigning one on first use.
func (p *printer) name(id ValueID) string {
	if n, ok := p.names[id]; ok {
		return n
	}
	v := p.m.Value(id)
	var n string
	switch {
	case v.Name != "":
		n = p.unique(v.Name)
	case v.Kind == ValueFuncArgRef:
		n = p.unique("@arg" + strconv.Itoa(v.ArgIndex))
	default:
		n = "%" + strconv.Itoa(p.next)
		p.next++
	}
	p.names[id] = n
	return n
}

// unique returns base, or base_K with the smallest K not printed yet.
func (p *printer) unique(base string) string {
	n := base
	for i := p.taken[base]; p.taken[n] > 0; i++ {
		n = base + "_" + strconv.Itoa(i)
	}
	p.taken[n]++
	if n != base {
		p.taken[base]++
	}
	return n
}

func (p *printer) operand(id ValueID) string {
	v := p.m.Value(id)
	if v == nil {
		return "<none>"
	}
	switch v.Kind {
	case ValueInteger:
		return strconv.FormatInt(int64(v.Int), 10)
	case ValueZeroInit:
		return "zeroinit"
	case ValueAggregate:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = p.operand(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return p.name(id)
}

func (p *printer) inst(f *Func, id ValueID) string {
	v := p.m.Value(id)
	switch v.Kind {
	case ValueAlloc:
		return fmt.Sprintf("%s = alloc %s", p.name(id), v.Ty.Elem)
	case ValueLoad:
		return fmt.Sprintf("%s = load %s", p.name(id), p.operand(v.Src))
	case ValueStore:
		return fmt.Sprintf("store %s, %s", p.operand(v.Val), p.operand(v.Dest))
	case ValueGetPtr:
		return fmt.Sprintf("%s = getptr %s, %s", p.name(id), p.operand(v.Src), p.operand(v.Index))
	case ValueGetElemPtr:
		return fmt.Sprintf("%s = getelemptr %s, %s", p.name(id), p.operand(v.Src), p.operand(v.Index))
	case ValueBinary:
		return fmt.Sprintf("%s = %s %s, %s", p.name(id), v.Op, p.operand(v.Lhs), p.operand(v.Rhs))
	case ValueBranch:
		return fmt.Sprintf("br %s, %%%s, %%%s", p.operand(v.Cond), BlockName(f, v.TrueBB), BlockName(f, v.FalseBB))
	case ValueJump:
		return "jump %" + BlockName(f, v.Target)
	case ValueCall:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = p.operand(a)
		}
		call := fmt.Sprintf("call @%s(%s)", p.m.Func(v.Callee).Name, strings.Join(args, ", "))
		if v.Ty.IsUnit() {
			return call
		}
		return p.name(id) + " = " + call
	case ValueReturn:
		if v.Val.IsValid() {
			return "ret " + p.operand(v.Val)
		}
		return "ret"
	}
	return "<" + v.Kind.String() + ">"
}

func joinTypes(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func retSuffix(t *Type) string {
	if t.IsUnit() {
		return ""
	}
	return ": " + t.String()
}
