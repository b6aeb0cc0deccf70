// Package fuzztests houses Go fuzz harnesses for the whole compilation
// pipeline (source -> lexer -> parser -> irgen -> riscv). The goal is to
// catch panics, hangs and invalid IR on arbitrary inputs.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
