package layout

import (
	"fmt"

	"kira/internal/ir"
)

// LayoutErrorKind enumerates frame planning errors.
type LayoutErrorKind uint8

const (
	// LayoutErrFrameTooLarge indicates a frame that does not fit the 32-bit offset range.
	LayoutErrFrameTooLarge LayoutErrorKind = iota + 1
	// LayoutErrDeclaration indicates an attempt to plan a function without a body.
	LayoutErrDeclaration
	// LayoutErrUnsizedSlot indicates a used value whose type has no storage size.
	LayoutErrUnsizedSlot
)

// LayoutError represents an error during frame planning.
type LayoutError struct {
	Kind  LayoutErrorKind
	Func  string
	Value ir.ValueID // for LayoutErrUnsizedSlot
	Err   error      // for LayoutErrFrameTooLarge
}

func (e *LayoutError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case LayoutErrFrameTooLarge:
		if e.Err != nil {
			return fmt.Sprintf("frame of @%s is too large: %v", e.Func, e.Err)
		}
		return fmt.Sprintf("frame of @%s is too large", e.Func)
	case LayoutErrDeclaration:
		return fmt.Sprintf("@%s is a declaration and has no frame", e.Func)
	case LayoutErrUnsizedSlot:
		return fmt.Sprintf("value #%d of @%s has no storage size", e.Value, e.Func)
	default:
		return fmt.Sprintf("layout error kind=%d in @%s", e.Kind, e.Func)
	}
}

func (e *LayoutError) Unwrap() error { return e.Err }
