package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Module holds global values and functions in definition order.
type Module struct {
	Values  *Arena
	Globals []ValueID
	Funcs   []*Func

	funcByName map[string]FuncID
}

func NewModule() *Module {
	return &Module{
		Values:     NewArena(1 << 8),
		funcByName: make(map[string]FuncID),
	}
}

func (m *Module) Value(id ValueID) *Value {
	return m.Values.Get(id)
}

func (m *Module) Users(id ValueID) []ValueID {
	return m.Values.Users(id)
}

func (m *Module) Func(id FuncID) *Func {
	if id == NoFuncID || int(id) > len(m.Funcs) {
		return nil
	}
	return m.Funcs[id-1]
}

// FuncByName looks up a function or declaration.
func (m *Module) FuncByName(name string) (*Func, bool) {
	id, ok := m.funcByName[name]
	if !ok {
		return nil, false
	}
	return m.Func(id), true
}

// NewFunc registers a function with one FuncArgRef per parameter and no blocks.
func (m *Module) NewFunc(name string, params []*Type, ret *Type) (*Func, error) {
	if _, exists := m.funcByName[name]; exists {
		return nil, fmt.Errorf("function %s already defined", name)
	}
	n, err := safecast.Conv[uint32](len(m.Funcs) + 1)
	if err != nil {
		return nil, fmt.Errorf("too many functions: %w", err)
	}
	if ret == nil {
		ret = Unit()
	}
	f := &Func{ID: FuncID(n), Name: name, Params: params, Ret: ret}
	for i, p := range params {
		f.Args = append(f.Args, m.Values.Allocate(Value{
			Kind:     ValueFuncArgRef,
			Ty:       p,
			Func:     f.ID,
			ArgIndex: i,
		}))
	}
	m.Funcs = append(m.Funcs, f)
	m.funcByName[name] = f.ID
	return f, nil
}

// Integer creates a constant. Constants never live in a block.
func (m *Module) Integer(v int32) ValueID {
	return m.Values.Allocate(Value{Kind: ValueInteger, Ty: I32(), Int: v})
}

func (m *Module) ZeroInit(ty *Type) ValueID {
	return m.Values.Allocate(Value{Kind: ValueZeroInit, Ty: ty})
}

func (m *Module) Aggregate(ty *Type, elems []ValueID) ValueID {
	return m.Values.Allocate(Value{Kind: ValueAggregate, Ty: ty, Elems: elems})
}

// GlobalAlloc defines a global variable initialised with init.
func (m *Module) GlobalAlloc(name string, init ValueID) ValueID {
	initTy := m.Value(init).Ty
	id := m.Values.Allocate(Value{Kind: ValueGlobalAlloc, Ty: PtrTo(initTy), Name: name, Init: init})
	m.Globals = append(m.Globals, id)
	return id
}

// DeclareRuntime declares the SysY runtime library.
func (m *Module) DeclareRuntime() {
	arr := PtrTo(I32())
	decls := []struct {
		name   string
		params []*Type
		ret    *Type
	}{
		{"getint", nil, I32()},
		{"getch", nil, I32()},
		{"getarray", []*Type{arr}, I32()},
		{"putint", []*Type{I32()}, Unit()},
		{"putch", []*Type{I32()}, Unit()},
		{"putarray", []*Type{I32(), arr}, Unit()},
		{"starttime", nil, Unit()},
		{"stoptime", nil, Unit()},
	}
	for _, d := range decls {
		// имена уникальны, ошибки быть не может
		_, _ = m.NewFunc(d.name, d.params, d.ret)
	}
}
