// Package scope implements the lexical name stack used while lowering a program.
package scope

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicatedDefinition is returned when a name already exists in the innermost frame.
	ErrDuplicatedDefinition = errors.New("duplicated definition")
	// ErrSymbolNotFound is returned when no open frame defines the name.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Kind enumerates frame categories.
type Kind uint8

const (
	KindGlobal Kind = iota
	KindFunction
	KindBlock
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	default:
		return "invalid"
	}
}

type frame[B any] struct {
	kind  Kind
	names map[string]B
}

// Stack is an ordered list of frames, innermost last. Frame 0 is the global frame.
type Stack[B any] struct {
	frames []frame[B]
}

// New returns a stack with only the global frame open.
func New[B any]() *Stack[B] {
	s := &Stack[B]{}
	s.push(KindGlobal)
	return s
}

func (s *Stack[B]) push(kind Kind) {
	s.frames = append(s.frames, frame[B]{kind: kind, names: make(map[string]B)})
}

// Enter opens a new innermost frame.
func (s *Stack[B]) Enter(kind Kind) {
	s.push(kind)
}

// Exit closes the innermost frame. The global frame is never popped.
func (s *Stack[B]) Exit() {
	if len(s.frames) <= 1 {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// IsGlobal reports whether only the global frame is open.
func (s *Stack[B]) IsGlobal() bool {
	return len(s.frames) == 1
}

// Depth is the number of open frames, the global one included.
func (s *Stack[B]) Depth() int {
	return len(s.frames)
}

// Define binds name in the innermost frame.
func (s *Stack[B]) Define(name string, b B) error {
	top := &s.frames[len(s.frames)-1]
	if _, exists := top.names[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatedDefinition, name)
	}
	top.names[name] = b
	return nil
}

// Resolve searches frames from innermost to outermost.
func (s *Stack[B]) Resolve(name string) (B, error) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if b, ok := s.frames[i].names[name]; ok {
			return b, nil
		}
	}
	var zero B
	return zero, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
}
