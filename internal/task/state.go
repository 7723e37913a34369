package task

import (
	"fmt"
	"math/rand/v2"
)

// State is the cosmetic "quantum state" label carried by every task.
type State string

const (
	StateSuperposition State = "Superposition"
	StateEntangled     State = "Entangled"
	StateCollapsed     State = "Collapsed"
)

var allStates = []State{StateSuperposition, StateEntangled, StateCollapsed}

// States returns the enumeration in canonical order.
func States() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

// Valid reports whether s is one of the enumerated states.
func (s State) Valid() bool {
	switch s {
	case StateSuperposition, StateEntangled, StateCollapsed:
		return true
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a string to a State.
func ParseState(v string) (State, error) {
	s := State(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown state %q", v)
	}
	return s, nil
}

// StatePicker chooses a state for a task.
type StatePicker interface {
	Pick() State
}

// StatePickerFunc adapts a function to StatePicker.
type StatePickerFunc func() State

// Pick implements StatePicker.
func (f StatePickerFunc) Pick() State {
	return f()
}

// UniformPicker draws uniformly from the enumeration.
// The zero value uses the global math/rand/v2 source.
type UniformPicker struct {
	Rand *rand.Rand
}

// Pick implements StatePicker.
func (p UniformPicker) Pick() State {
	if p.Rand != nil {
		return allStates[p.Rand.IntN(len(allStates))]
	}
	return allStates[rand.IntN(len(allStates))]
}
