// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStateGetPrefersDelta(t *testing.T) {
	t.Parallel()

	s := NewState(map[string]any{"key": "base"}, map[string]any{"key": "pending"})

	got, ok := s.Get("key")
	if !ok || got != "pending" {
		t.Errorf("Get = %v, %v; want pending, true", got, ok)
	}
}

func TestStateSetAndDelta(t *testing.T) {
	t.Parallel()

	s := NewState(nil, nil)
	if s.HasDelta() {
		t.Error("fresh state reports a delta")
	}

	s.Set("city", "Mumbai")
	if !s.HasDelta() {
		t.Error("Set did not record a delta")
	}
	if diff := cmp.Diff(map[string]any{"city": "Mumbai"}, s.GetDelta()); diff != "" {
		t.Errorf("GetDelta mismatch (-want +got):\n%s", diff)
	}

	s.ApplyDelta()
	if s.HasDelta() {
		t.Error("ApplyDelta left a pending delta")
	}
	if got, ok := s.Get("city"); !ok || got != "Mumbai" {
		t.Errorf("Get after ApplyDelta = %v, %v; want Mumbai, true", got, ok)
	}
}

func TestStateUpdate(t *testing.T) {
	t.Parallel()

	s := NewState(map[string]any{"keep": "old"}, nil)
	s.Update(map[string]any{"a": 1, "b": 2})

	want := map[string]any{"keep": "old", "a": 1, "b": 2}
	if diff := cmp.Diff(want, s.ToMap()); diff != "" {
		t.Errorf("ToMap mismatch (-want +got):\n%s", diff)
	}
}

func TestStateSnapshotIsolation(t *testing.T) {
	t.Parallel()

	inner := map[string]any{"score": 80}
	s := NewState(map[string]any{"result": inner}, nil)

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the snapshot must not leak back into the state.
	snap["result"].(map[string]any)["score"] = 0

	got, _ := s.Get("result")
	if got.(map[string]any)["score"] != 80 {
		t.Error("snapshot mutation leaked into the state")
	}
}

func TestStateGetJSON(t *testing.T) {
	t.Parallel()

	type parsed struct {
		TargetLocation string `json:"target_location"`
		BusinessType   string `json:"business_type"`
	}

	s := NewState(nil, nil)

	// Structs round-trip through their JSON form.
	s.Set("as_struct", &parsed{TargetLocation: "Mumbai", BusinessType: "bakery"})
	var fromStruct parsed
	if err := s.GetJSON("as_struct", &fromStruct); err != nil {
		t.Fatal(err)
	}
	if fromStruct.TargetLocation != "Mumbai" || fromStruct.BusinessType != "bakery" {
		t.Errorf("GetJSON from struct = %+v", fromStruct)
	}

	// Raw JSON strings, as written by model-backed stages, decode too.
	s.Set("as_string", `{"target_location": "Mumbai", "business_type": "bakery"}`)
	var fromString parsed
	if err := s.GetJSON("as_string", &fromString); err != nil {
		t.Fatal(err)
	}
	if fromString.TargetLocation != "Mumbai" || fromString.BusinessType != "bakery" {
		t.Errorf("GetJSON from string = %+v", fromString)
	}

	if err := s.GetJSON("missing", &fromString); err == nil {
		t.Error("GetJSON on a missing key succeeded, want error")
	}
}

func TestSessionCompletionAndHalt(t *testing.T) {
	t.Parallel()

	sess := NewSession("app", "user", "sess", nil)

	sess.MarkCompleted("parse")
	sess.MarkCompleted("research")
	if !sess.AllCompleted("parse", "research") {
		t.Errorf("AllCompleted = false, stages = %v", sess.CompletedStages())
	}
	if sess.AllCompleted("parse", "research", "report") {
		t.Error("AllCompleted true with a missing stage")
	}

	sess.SetHalted("out of scope")
	if !sess.Halted() || sess.HaltReason() != "out of scope" {
		t.Errorf("Halted = %v, reason = %q", sess.Halted(), sess.HaltReason())
	}
	sess.ClearHalted()
	if sess.Halted() {
		t.Error("ClearHalted did not clear the halt")
	}
}

func TestSessionEvents(t *testing.T) {
	t.Parallel()

	sess := NewSession("app", "user", "sess", nil)
	sess.AddEvent("user", "find a bakery spot")
	sess.AddEvent("agent", "here is the plan")

	events := sess.Events()
	if len(events) != 2 {
		t.Fatalf("len(Events) = %d, want 2", len(events))
	}
	if events[0].Author != "user" || events[1].Author != "agent" {
		t.Errorf("event authors = %q, %q", events[0].Author, events[1].Author)
	}
}
