package ir

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena owns every value of a module and the reverse handle→users map.
// Pointers returned by Get stay valid for the arena's lifetime.
type Arena struct {
	values []*Value
	users  map[ValueID][]ValueID
}

func NewArena(capHint int) *Arena {
	return &Arena{
		values: make([]*Value, 0, capHint),
		users:  make(map[ValueID][]ValueID),
	}
}

// Allocate stores v and records it as a user of each of its operands.
func (a *Arena) Allocate(v Value) ValueID {
	n, err := safecast.Conv[uint32](len(a.values) + 1)
	if err != nil {
		panic(fmt.Errorf("value arena overflow: %w", err))
	}
	id := ValueID(n)
	v.ID = id
	a.values = append(a.values, &v)
	for _, op := range v.Operands() {
		a.users[op] = append(a.users[op], id)
	}
	return id
}

func (a *Arena) Get(id ValueID) *Value {
	if id == NoValueID || int(id) > len(a.values) {
		return nil
	}
	return a.values[id-1]
}

// Users returns the values that read id, in creation order.
func (a *Arena) Users(id ValueID) []ValueID {
	return a.users[id]
}

func (a *Arena) HasUsers(id ValueID) bool {
	return len(a.users[id]) > 0
}

func (a *Arena) Len() int {
	return len(a.values)
}
