// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package approval

import "testing"

func TestMachineHappyPath(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if got := m.State(); got != StateNone {
		t.Fatalf("initial state = %v, want %v", got, StateNone)
	}

	if err := m.Present("plan v1"); err != nil {
		t.Fatal(err)
	}
	if got := m.State(); got != StatePending {
		t.Fatalf("state after Present = %v, want %v", got, StatePending)
	}
	if got := m.Plan(); got != "plan v1" {
		t.Errorf("Plan = %q, want %q", got, "plan v1")
	}

	next, err := m.Transition(ClassificationApprove)
	if err != nil {
		t.Fatal(err)
	}
	if next != StateApproved {
		t.Errorf("state after approve = %v, want %v", next, StateApproved)
	}
	if !m.Approved() {
		t.Error("Approved = false after approval")
	}
}

func TestMachineRefineStaysPending(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if err := m.Present("plan v1"); err != nil {
		t.Fatal(err)
	}

	next, err := m.Transition(ClassificationRefine)
	if err != nil {
		t.Fatal(err)
	}
	if next != StatePending {
		t.Errorf("state after refine = %v, want %v", next, StatePending)
	}

	// The refined plan is re-presented without leaving pending.
	if err := m.Present("plan v2"); err != nil {
		t.Fatal(err)
	}
	if got := m.Plan(); got != "plan v2" {
		t.Errorf("Plan = %q, want %q", got, "plan v2")
	}
}

func TestMachineUnrelatedClearsPlan(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if err := m.Present("plan v1"); err != nil {
		t.Fatal(err)
	}

	next, err := m.Transition(ClassificationUnrelated)
	if err != nil {
		t.Fatal(err)
	}
	if next != StateNone {
		t.Errorf("state after unrelated = %v, want %v", next, StateNone)
	}
	if got := m.Plan(); got != "" {
		t.Errorf("Plan = %q, want empty after unrelated turn", got)
	}
}

func TestMachineTransitionOutsidePendingFails(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if _, err := m.Transition(ClassificationApprove); err == nil {
		t.Error("Transition from none succeeded, want error")
	}

	if err := m.Present("plan"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Transition(ClassificationApprove); err != nil {
		t.Fatal(err)
	}
	// Approved is terminal until Reset; no further classification applies.
	if _, err := m.Transition(ClassificationRefine); err == nil {
		t.Error("Transition from approved succeeded, want error")
	}
	if err := m.Present("another plan"); err == nil {
		t.Error("Present from approved succeeded, want error")
	}
}

func TestMachineTurnGate(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if err := m.Present("plan"); err != nil {
		t.Fatal(err)
	}
	if !m.GateSet() {
		t.Error("gate not set after Present")
	}

	m.BeginTurn()
	if m.GateSet() {
		t.Error("gate still set after BeginTurn")
	}

	// A second BeginTurn in the same turn is a no-op, not a toggle.
	m.BeginTurn()
	if m.GateSet() {
		t.Error("gate set after repeated BeginTurn")
	}
}

func TestMachineReset(t *testing.T) {
	t.Parallel()

	m := NewMachine()
	if err := m.Present("plan"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Transition(ClassificationApprove); err != nil {
		t.Fatal(err)
	}

	m.Reset()
	if got := m.State(); got != StateNone {
		t.Errorf("state after Reset = %v, want %v", got, StateNone)
	}
	if m.Plan() != "" || m.GateSet() {
		t.Error("Reset left plan or gate behind")
	}
}

func TestParseClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label  string
		want   Classification
		wantOK bool
	}{
		{"approve", ClassificationApprove, true},
		{"approved", ClassificationApprove, true},
		{"refine", ClassificationRefine, true},
		{"revise", ClassificationRefine, true},
		{"unrelated", ClassificationUnrelated, true},
		{"new_request", ClassificationUnrelated, true},
		{"maybe", ClassificationRefine, false},
		{"", ClassificationRefine, false},
	}
	for _, tt := range tests {
		got, ok := ParseClassification(tt.label)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseClassification(%q) = %v, %v; want %v, %v", tt.label, got, ok, tt.want, tt.wantOK)
		}
	}
}
