package parser

import (
	"kira/internal/ast"
	"kira/internal/token"
)

// Таблица приоритетов для бинарных операторов
// Чем больше число, тем выше приоритет
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

// binaryOp возвращает приоритет и оператор; все операторы SysY левоассоциативны.
func binaryOp(kind token.Kind) (int, ast.BinaryOp, bool) {
	switch kind {
	case token.OrOr:
		return precLogicalOr, ast.BinLogicalOr, true
	case token.AndAnd:
		return precLogicalAnd, ast.BinLogicalAnd, true
	case token.EqEq:
		return precEquality, ast.BinEq, true
	case token.BangEq:
		return precEquality, ast.BinNe, true
	case token.Lt:
		return precComparison, ast.BinLt, true
	case token.LtEq:
		return precComparison, ast.BinLe, true
	case token.Gt:
		return precComparison, ast.BinGt, true
	case token.GtEq:
		return precComparison, ast.BinGe, true
	case token.Plus:
		return precAdditive, ast.BinAdd, true
	case token.Minus:
		return precAdditive, ast.BinSub, true
	case token.Star:
		return precMultiplicative, ast.BinMul, true
	case token.Slash:
		return precMultiplicative, ast.BinDiv, true
	case token.Percent:
		return precMultiplicative, ast.BinMod, true
	default:
		return -1, 0, false
	}
}

func unaryOp(kind token.Kind) (ast.UnaryOp, bool) {
	switch kind {
	case token.Plus:
		return ast.UnaryPlus, true
	case token.Minus:
		return ast.UnaryMinus, true
	case token.Bang:
		return ast.UnaryNot, true
	default:
		return 0, false
	}
}
