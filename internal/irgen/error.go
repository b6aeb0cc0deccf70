package irgen

import (
	"errors"
	"fmt"

	"kira/internal/diag"
	"kira/internal/scope"
	"kira/internal/source"
)

// ErrorKind enumerates IR generation failures. All of them are fatal.
type ErrorKind uint8

const (
	ErrDuplicatedDefinition ErrorKind = iota + 1
	ErrSymbolNotFound
	ErrFailedToEval
	ErrInvalidArrayLen
	ErrInvalidInit
	ErrArrayAssign
	ErrDerefInt
	ErrNonIntCalc
	ErrUseVoidValue
	ErrNotInLoop
	ErrRetValInVoidFunc
	ErrArgMismatch
	ErrConstAssign
)

var errorKindInfo = [...]struct {
	msg  string
	code diag.Code
}{
	ErrDuplicatedDefinition: {"duplicated symbol definition", diag.GenDuplicatedDefinition},
	ErrSymbolNotFound:       {"symbol not found", diag.GenSymbolNotFound},
	ErrFailedToEval:         {"failed to evaluate constant", diag.GenFailedToEval},
	ErrInvalidArrayLen:      {"invalid array length", diag.GenInvalidArrayLen},
	ErrInvalidInit:          {"invalid initializer", diag.GenInvalidInit},
	ErrArrayAssign:          {"assigning to array", diag.GenArrayAssign},
	ErrDerefInt:             {"dereferencing an integer", diag.GenDerefInt},
	ErrNonIntCalc:           {"non-integer calculation", diag.GenNonIntCalc},
	ErrUseVoidValue:         {"using a void value", diag.GenUseVoidValue},
	ErrNotInLoop:            {"using break/continue outside of loop", diag.GenNotInLoop},
	ErrRetValInVoidFunc:     {"returning value in void function", diag.GenRetValInVoidFunc},
	ErrArgMismatch:          {"argument mismatch", diag.GenArgMismatch},
	ErrConstAssign:          {"assigning to constant", diag.GenConstAssign},
}

func (k ErrorKind) String() string {
	if k == 0 || int(k) >= len(errorKindInfo) {
		return fmt.Sprintf("irgen error kind=%d", k)
	}
	return errorKindInfo[k].msg
}

// Code maps the kind onto the diagnostic code space.
func (k ErrorKind) Code() diag.Code {
	if k == 0 || int(k) >= len(errorKindInfo) {
		return diag.UnknownCode
	}
	return errorKindInfo[k].code
}

// Error is a tagged IR generation failure.
type Error struct {
	Kind ErrorKind
	Name string      // offending symbol, if any
	Span source.Span // where it happened
	Err  error       // underlying scope error, if any
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Name)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, name string, sp source.Span) *Error {
	return &Error{Kind: kind, Name: name, Span: sp}
}

// scopeError converts a scope stack failure into a tagged error.
func scopeError(err error, name string, sp source.Span) *Error {
	kind := ErrSymbolNotFound
	if errors.Is(err, scope.ErrDuplicatedDefinition) {
		kind = ErrDuplicatedDefinition
	}
	return &Error{Kind: kind, Name: name, Span: sp, Err: err}
}

// KindOf extracts the ErrorKind of err, or 0 if err is not an irgen error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
