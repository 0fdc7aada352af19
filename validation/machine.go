package validation

import (
	"errors"
	"fmt"

	"github.com/c360studio/sbolgraph/document"
)

// ErrInvalidTransition is returned when a gate runs out of order.
var ErrInvalidTransition = errors.New("invalid validation state transition")

// State is the validation lifecycle of a document.
type State string

const (
	// StateUnchecked is the state of a document no gate has seen.
	StateUnchecked State = "unchecked"
	// StateLoaded means the post-deserialize gate passed.
	StateLoaded State = "loaded"
	// StateReady means the pre-serialize gate passed and the document may be
	// written.
	StateReady State = "ready"
	// StateRejected means a gate failed.
	StateRejected State = "rejected"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// CanTransitionTo returns true if the state can transition to target.
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateUnchecked:
		return target == StateLoaded || target == StateRejected
	case StateLoaded:
		return target == StateReady || target == StateRejected
	case StateReady:
		// Re-checking a ready document after edits.
		return target == StateReady || target == StateRejected
	case StateRejected:
		return false // Terminal until Reset
	default:
		return false
	}
}

// Machine drives a document through the two gates in order.
type Machine struct {
	v     *Validator
	state State
	last  *Report
}

// NewMachine returns a machine in StateUnchecked.
func NewMachine(v *Validator) *Machine {
	return &Machine{v: v, state: StateUnchecked}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// LastReport returns the report of the most recent gate run, or nil.
func (m *Machine) LastReport() *Report { return m.last }

// CheckLoaded runs the post-deserialize gate.
func (m *Machine) CheckLoaded(doc *document.Document) (*Report, error) {
	return m.run(doc, GatePostDeserialize, StateLoaded)
}

// CheckReady runs the pre-serialize gate.
func (m *Machine) CheckReady(doc *document.Document) (*Report, error) {
	return m.run(doc, GatePreSerialize, StateReady)
}

// Reset returns the machine to StateUnchecked.
func (m *Machine) Reset() {
	m.state = StateUnchecked
	m.last = nil
}

func (m *Machine) run(doc *document.Document, gate Gate, next State) (*Report, error) {
	if !m.state.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s gate from %s", ErrInvalidTransition, gate, m.state)
	}
	report, err := m.v.Check(doc, gate)
	m.last = report
	if err != nil {
		m.state = StateRejected
		return report, err
	}
	m.state = next
	return report, nil
}
