package irgen

import "kira/internal/ir"

type bindingKind uint8

const (
	bindConst bindingKind = iota + 1 // folded scalar constant
	bindVar                          // address of a local or global (alloc / global alloc)
	bindFunc                         // function, global frame only
)

// binding is what a name resolves to in the scope stack.
type binding struct {
	kind  bindingKind
	value int32      // bindConst
	ptr   ir.ValueID // bindVar
	fn    *ir.Func   // bindFunc
	isArr bool       // bindVar of array type or array parameter
	konst bool       // bindVar declared with `const` (arrays)
}
