// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"maps"
	"sync"

	"github.com/bytedance/sonic"
	deepcopy "github.com/tiendc/go-deepcopy"
)

// State maintains the current value of the session state dict and any
// pending deltas that haven't been committed yet.
type State struct {
	mu sync.RWMutex

	// value is the current value of the state dict.
	value map[string]any

	// delta is the pending change to the current value that hasn't been committed.
	delta map[string]any
}

// NewState creates a new [State] with the given value and delta maps.
func NewState(value, delta map[string]any) *State {
	if value == nil {
		value = make(map[string]any)
	}
	if delta == nil {
		delta = make(map[string]any)
	}

	return &State{
		value: value,
		delta: delta,
	}
}

// Get returns the value for the given key, prioritizing delta values over
// the base values.
func (s *State) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.delta[key]; ok {
		return val, true
	}

	val, ok := s.value[key]
	return val, ok
}

// GetString returns the string stored under key, or "" if the key is absent
// or holds a non-string.
func (s *State) GetString(key string) string {
	if val, ok := s.Get(key); ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetBool returns the bool stored under key, or false if the key is absent
// or holds a non-bool.
func (s *State) GetBool(key string) bool {
	if val, ok := s.Get(key); ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// Set sets the value for the given key, updating both value and delta.
func (s *State) Set(key string, val any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value[key] = val
	s.delta[key] = val
}

// Has checks if the state contains the given key.
func (s *State) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, inValue := s.value[key]
	_, inDelta := s.delta[key]

	return inValue || inDelta
}

// Delete removes the key from both value and delta.
func (s *State) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.value, key)
	delete(s.delta, key)
}

// Update updates the state with the given delta, affecting both value and delta.
func (s *State) Update(update map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range update {
		s.value[k] = v
		s.delta[k] = v
	}
}

// ToMap returns a map representation of the state, with delta values taking
// precedence over base values.
func (s *State) ToMap() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any, len(s.value)+len(s.delta))
	maps.Copy(result, s.value)
	maps.Copy(result, s.delta)

	return result
}

// HasDelta checks if there are any pending changes.
func (s *State) HasDelta() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.delta) > 0
}

// GetDelta returns just the pending changes.
func (s *State) GetDelta() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]any, len(s.delta))
	maps.Copy(result, s.delta)

	return result
}

// ApplyDelta applies all pending changes to the base state and clears the delta.
func (s *State) ApplyDelta() {
	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.value, s.delta)
	s.delta = make(map[string]any)
}

// Snapshot returns a deep copy of the merged state. Fan-out branches read
// from a snapshot so that concurrent stages see a consistent view.
func (s *State) Snapshot() (map[string]any, error) {
	merged := s.ToMap()

	snapshot := make(map[string]any, len(merged))
	if err := deepcopy.Copy(&snapshot, merged); err != nil {
		return nil, fmt.Errorf("snapshot state: %w", err)
	}

	return snapshot, nil
}

// GetJSON unmarshals the value stored under key into out.
//
// Values written by stages are either JSON-serializable Go values or raw
// JSON strings from a model response; both are handled here.
func (s *State) GetJSON(key string, out any) error {
	val, ok := s.Get(key)
	if !ok {
		return fmt.Errorf("state key %q not found", key)
	}

	var raw []byte
	switch v := val.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		b, err := sonic.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal state key %q: %w", key, err)
		}
		raw = b
	}

	if err := sonic.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshal state key %q: %w", key, err)
	}
	return nil
}
