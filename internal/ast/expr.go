package ast

import (
	"kira/internal/source"
)

type ExprKind uint8

const (
	// ExprLit is an integer literal already narrowed to int32.
	ExprLit ExprKind = iota
	// ExprLVal is a name with zero or more index expressions: a, a[i], a[i][j].
	ExprLVal
	ExprUnary
	ExprBinary
	ExprCall
)

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type UnaryOp uint8

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "!"
	}
	return "?"
}

type BinaryOp uint8

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinLt
	BinGt
	BinLe
	BinGe
	BinEq
	BinNe
	BinLogicalAnd
	BinLogicalOr
)

var binaryOpNames = [...]string{
	BinAdd:        "+",
	BinSub:        "-",
	BinMul:        "*",
	BinDiv:        "/",
	BinMod:        "%",
	BinLt:         "<",
	BinGt:         ">",
	BinLe:         "<=",
	BinGe:         ">=",
	BinEq:         "==",
	BinNe:         "!=",
	BinLogicalAnd: "&&",
	BinLogicalOr:  "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsLogical reports whether op short-circuits.
func (op BinaryOp) IsLogical() bool {
	return op == BinLogicalAnd || op == BinLogicalOr
}

type ExprLitData struct {
	Value int32
}

type ExprLValData struct {
	Name    string
	Indices []ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprCallData struct {
	Name string
	Args []ExprID
}
