// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package approval

import (
	"fmt"
	"sync"
)

// State is the plan approval state.
type State int

const (
	// StateNone means no plan has been proposed for the current topic.
	StateNone State = iota

	// StatePending means a plan has been presented and awaits the user's verdict.
	StatePending

	// StateApproved means the user approved the plan; analysis stages are unblocked.
	StateApproved
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StatePending:
		return "pending"
	case StateApproved:
		return "approved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Classification is the verdict on a user turn while a plan is pending.
type Classification int

const (
	// ClassificationRefine means the user asked for changes to the plan.
	// This is also the default for ambiguous or unclassifiable turns:
	// re-presenting a plan is safer than silently approving it.
	ClassificationRefine Classification = iota

	// ClassificationApprove means the user approved the plan.
	ClassificationApprove

	// ClassificationUnrelated means the user started an unrelated new request.
	ClassificationUnrelated
)

// String returns the name of the classification.
func (c Classification) String() string {
	switch c {
	case ClassificationRefine:
		return "refine"
	case ClassificationApprove:
		return "approve"
	case ClassificationUnrelated:
		return "unrelated"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

// ParseClassification maps a classifier label to a [Classification].
// Unknown labels report false; callers fall back to ClassificationRefine.
func ParseClassification(label string) (Classification, bool) {
	switch label {
	case "approve", "approval", "approved":
		return ClassificationApprove, true
	case "refine", "refinement", "revise":
		return ClassificationRefine, true
	case "unrelated", "new_request", "new-request":
		return ClassificationUnrelated, true
	default:
		return ClassificationRefine, false
	}
}

// Machine is the plan approval state machine.
//
// The turn gate is set when a plan is (re-)presented and reset exactly once
// at the start of the next user turn, before classification runs, so the
// system never classifies its own just-presented plan as a user response.
type Machine struct {
	mu       sync.Mutex
	state    State
	turnGate bool
	plan     string
}

// NewMachine creates a machine in [StateNone].
func NewMachine() *Machine {
	return &Machine{state: StateNone}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Plan returns the pending plan text, or "" outside [StatePending].
func (m *Machine) Plan() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plan
}

// GateSet reports whether the turn gate is set.
func (m *Machine) GateSet() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turnGate
}

// BeginTurn resets the turn gate. It must be called at the start of every
// user turn, before classification.
func (m *Machine) BeginTurn() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnGate = false
}

// Present records a (re-)presented plan: none or pending moves to pending
// and the turn gate is set. Presenting from approved is a protocol error.
func (m *Machine) Present(plan string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateApproved {
		return fmt.Errorf("present plan: invalid in state %s", m.state)
	}
	m.state = StatePending
	m.plan = plan
	m.turnGate = true
	return nil
}

// Transition applies the classification of a user turn. Only valid while
// a plan is pending.
func (m *Machine) Transition(c Classification) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StatePending {
		return m.state, fmt.Errorf("classify turn: invalid in state %s", m.state)
	}

	switch c {
	case ClassificationApprove:
		m.state = StateApproved
	case ClassificationRefine:
		// Plan is regenerated and re-presented by the caller; stays pending.
	case ClassificationUnrelated:
		m.state = StateNone
		m.plan = ""
	default:
		return m.state, fmt.Errorf("classify turn: unknown classification %v", c)
	}

	return m.state, nil
}

// Reset clears the machine for a new topic.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateNone
	m.plan = ""
	m.turnGate = false
}

// Approved reports whether downstream analysis stages are unblocked.
func (m *Machine) Approved() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == StateApproved
}
