package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexBadNumber                Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Синтаксические
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynUnexpectedTopLevel Code = 2009

	// IR generation
	GenInfo                 Code = 3000
	GenDuplicatedDefinition Code = 3001
	GenSymbolNotFound       Code = 3002
	GenFailedToEval         Code = 3003
	GenInvalidArrayLen      Code = 3004
	GenInvalidInit          Code = 3005
	GenArrayAssign          Code = 3006
	GenDerefInt             Code = 3007
	GenNonIntCalc           Code = 3008
	GenUseVoidValue         Code = 3009
	GenNotInLoop            Code = 3010
	GenRetValInVoidFunc     Code = 3011
	GenArgMismatch          Code = 3012
	GenConstAssign          Code = 3013

	// I/O
	IOInfo           Code = 4000
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexBadNumber:                "Bad number literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	GenInfo:                     "IR generation information",
	GenDuplicatedDefinition:     "Duplicated symbol definition",
	GenSymbolNotFound:           "Symbol not found",
	GenFailedToEval:             "Failed to evaluate constant",
	GenInvalidArrayLen:          "Invalid array length",
	GenInvalidInit:              "Invalid initializer",
	GenArrayAssign:              "Assigning to array",
	GenDerefInt:                 "Dereferencing an integer",
	GenNonIntCalc:               "Non-integer calculation",
	GenUseVoidValue:             "Using a void value",
	GenNotInLoop:                "Using break/continue outside of loop",
	GenRetValInVoidFunc:         "Returning value in void function",
	GenArgMismatch:              "Argument mismatch",
	GenConstAssign:              "Assigning to constant",
	IOInfo:                      "I/O information",
	IOLoadFileError:             "Failed to load file",
	IOWriteFileError:            "Failed to write file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
