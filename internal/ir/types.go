package ir

import (
	"fmt"
	"strings"
)

// TypeKind enumerates IR types.
type TypeKind uint8

const (
	TypeI32 TypeKind = iota
	TypeUnit
	TypePtr
	TypeArray
	TypeFunc
)

// Type is immutable once built; compare with Equal.
type Type struct {
	Kind   TypeKind
	Elem   *Type // Ptr, Array
	Len    int   // Array
	Params []*Type
	Ret    *Type // Func
}

var (
	i32Type  = &Type{Kind: TypeI32}
	unitType = &Type{Kind: TypeUnit}
)

func I32() *Type  { return i32Type }
func Unit() *Type { return unitType }

func PtrTo(elem *Type) *Type { return &Type{Kind: TypePtr, Elem: elem} }

func ArrayOf(elem *Type, n int) *Type { return &Type{Kind: TypeArray, Elem: elem, Len: n} }

func FuncType(params []*Type, ret *Type) *Type {
	return &Type{Kind: TypeFunc, Params: params, Ret: ret}
}

// Size returns the number of bytes a value of this type occupies on RV32.
func (t *Type) Size() int {
	switch t.Kind {
	case TypeI32, TypePtr:
		return 4
	case TypeArray:
		return t.Len * t.Elem.Size()
	default:
		return 0
	}
}

func (t *Type) IsI32() bool  { return t != nil && t.Kind == TypeI32 }
func (t *Type) IsUnit() bool { return t == nil || t.Kind == TypeUnit }
func (t *Type) IsPtr() bool  { return t != nil && t.Kind == TypePtr }

func (t *Type) Equal(o *Type) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil || t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypePtr:
		return t.Elem.Equal(o.Elem)
	case TypeArray:
		return t.Len == o.Len && t.Elem.Equal(o.Elem)
	case TypeFunc:
		if len(t.Params) != len(o.Params) || !t.Ret.Equal(o.Ret) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "unit"
	}
	switch t.Kind {
	case TypeI32:
		return "i32"
	case TypeUnit:
		return "unit"
	case TypePtr:
		return "*" + t.Elem.String()
	case TypeArray:
		return fmt.Sprintf("[%s, %d]", t.Elem, t.Len)
	case TypeFunc:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		s := "(" + strings.Join(parts, ", ") + ")"
		if !t.Ret.IsUnit() {
			s += ": " + t.Ret.String()
		}
		return s
	}
	return "?"
}
