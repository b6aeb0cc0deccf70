package ir

type (
	// ValueID is a stable handle into the module value arena.
	ValueID uint32
	// BlockID indexes Func.Blocks (1-based).
	BlockID uint32
	// FuncID indexes Module.Funcs (1-based).
	FuncID uint32
)

const (
	NoValueID ValueID = 0
	NoBlockID BlockID = 0
	NoFuncID  FuncID  = 0
)

func (id ValueID) IsValid() bool { return id != NoValueID }
func (id BlockID) IsValid() bool { return id != NoBlockID }
func (id FuncID) IsValid() bool  { return id != NoFuncID }
