package layout

// Target describes the ABI properties the frame planner depends on.
//
// Only riscv32 is implemented.
type Target struct {
	Triple     string // e.g. "riscv32-unknown-elf"
	WordSize   int    // bytes per stack slot and per pointer
	StackAlign int    // frame size alignment in bytes
	ArgRegs    int    // integer arguments passed in registers (a0..)
}

func RV32() Target {
	return Target{
		Triple:     "riscv32-unknown-elf",
		WordSize:   4,
		StackAlign: 16,
		ArgRegs:    8,
	}
}
