package ir

// ValueKind is the closed set of IR value variants.
type ValueKind uint8

const (
	ValueInteger ValueKind = iota
	ValueZeroInit
	ValueAggregate
	ValueFuncArgRef
	ValueGlobalAlloc
	ValueAlloc
	ValueLoad
	ValueStore
	ValueGetPtr
	ValueGetElemPtr
	ValueBinary
	ValueBranch
	ValueJump
	ValueCall
	ValueReturn
)

var valueKindNames = [...]string{
	ValueInteger:     "integer",
	ValueZeroInit:    "zeroinit",
	ValueAggregate:   "aggregate",
	ValueFuncArgRef:  "arg",
	ValueGlobalAlloc: "global",
	ValueAlloc:       "alloc",
	ValueLoad:        "load",
	ValueStore:       "store",
	ValueGetPtr:      "getptr",
	ValueGetElemPtr:  "getelemptr",
	ValueBinary:      "binary",
	ValueBranch:      "br",
	ValueJump:        "jump",
	ValueCall:        "call",
	ValueReturn:      "ret",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "?"
}

// IsTerminator reports whether a value of this kind ends a basic block.
func (k ValueKind) IsTerminator() bool {
	return k == ValueBranch || k == ValueJump || k == ValueReturn
}

// IsInst reports whether values of this kind live inside a basic block.
func (k ValueKind) IsInst() bool {
	return k >= ValueAlloc
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNotEq
	OpLt
	OpGt
	OpLe
	OpGe
)

var binaryOpNames = [...]string{
	OpAdd:   "add",
	OpSub:   "sub",
	OpMul:   "mul",
	OpDiv:   "div",
	OpMod:   "mod",
	OpEq:    "eq",
	OpNotEq: "ne",
	OpLt:    "lt",
	OpGt:    "gt",
	OpLe:    "le",
	OpGe:    "ge",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// Value is one node of the IR graph. Only the payload fields of Kind are meaningful.
type Value struct {
	ID   ValueID
	Kind ValueKind
	Ty   *Type
	Name string // "@x", "%ret"; empty for anonymous values

	Func  FuncID  // owning function; NoFuncID for globals and constants
	Block BlockID // block the instruction was appended to

	Int      int32     // Integer
	ArgIndex int       // FuncArgRef
	Elems    []ValueID // Aggregate
	Init     ValueID   // GlobalAlloc

	Src   ValueID // Load, GetPtr, GetElemPtr
	Index ValueID // GetPtr, GetElemPtr

	Val  ValueID // Store (value), Return (optional)
	Dest ValueID // Store

	Op       BinaryOp
	Lhs, Rhs ValueID

	Cond    ValueID // Branch
	Target  BlockID // Jump
	TrueBB  BlockID
	FalseBB BlockID

	Callee FuncID
	Args   []ValueID
}

// Operands lists the values v reads, in evaluation order.
func (v *Value) Operands() []ValueID {
	var ops []ValueID
	add := func(ids ...ValueID) {
		for _, id := range ids {
			if id.IsValid() {
				ops = append(ops, id)
			}
		}
	}
	switch v.Kind {
	case ValueAggregate:
		add(v.Elems...)
	case ValueGlobalAlloc:
		add(v.Init)
	case ValueLoad:
		add(v.Src)
	case ValueStore:
		add(v.Val, v.Dest)
	case ValueGetPtr, ValueGetElemPtr:
		add(v.Src, v.Index)
	case ValueBinary:
		add(v.Lhs, v.Rhs)
	case ValueBranch:
		add(v.Cond)
	case ValueReturn:
		add(v.Val)
	case ValueCall:
		add(v.Args...)
	}
	return ops
}

// Successors lists the blocks a terminator may transfer control to.
func (v *Value) Successors() []BlockID {
	switch v.Kind {
	case ValueJump:
		return []BlockID{v.Target}
	case ValueBranch:
		return []BlockID{v.TrueBB, v.FalseBB}
	}
	return nil
}
