// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"slices"
	"sync"
	"time"
)

// Event records one message appended to the conversation, either by the
// user or by a named stage.
type Event struct {
	// Author is "user" or the name of the stage that appended the event.
	Author string

	// Text is the message content.
	Text string

	// Timestamp is assigned when the event is appended.
	Timestamp time.Time
}

// Session carries everything one conversation owns: the state bag, the
// conversation events, the set of completed stage names and the halted flag.
type Session struct {
	id             string
	appName        string
	userID         string
	state          *State
	lastUpdateTime time.Time

	mu         sync.RWMutex
	events     []*Event
	completed  map[string]struct{}
	halted     bool
	haltReason string
}

// NewSession creates a new session with the given parameters.
func NewSession(appName, userID, id string, state map[string]any) *Session {
	return &Session{
		id:             id,
		appName:        appName,
		userID:         userID,
		state:          NewState(state, nil),
		lastUpdateTime: time.Now(),
		completed:      make(map[string]struct{}),
	}
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// AppName returns the application name.
func (s *Session) AppName() string { return s.appName }

// UserID returns the user ID.
func (s *Session) UserID() string { return s.userID }

// State returns the state of this session.
func (s *Session) State() *State { return s.state }

// LastUpdateTime returns the last time this session was updated.
func (s *Session) LastUpdateTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdateTime
}

// AddEvent appends an event to this session and bumps the update time.
func (s *Session) AddEvent(author, text string) *Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := &Event{
		Author:    author,
		Text:      text,
		Timestamp: time.Now(),
	}
	s.events = append(s.events, event)
	s.lastUpdateTime = event.Timestamp

	return event
}

// Events returns the events in this session.
func (s *Session) Events() []*Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events)
}

// MarkCompleted records that the named stage finished successfully.
//
// Only successful completions enter the set; a failed fan-out branch must
// never be counted as complete.
func (s *Session) MarkCompleted(stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[stage] = struct{}{}
}

// Completed reports whether the named stage finished successfully.
func (s *Session) Completed(stage string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.completed[stage]
	return ok
}

// CompletedStages returns the sorted names of all completed stages.
func (s *Session) CompletedStages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.completed))
	for name := range s.completed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// AllCompleted reports whether every named stage finished successfully.
func (s *Session) AllCompleted(stages ...string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, name := range stages {
		if _, ok := s.completed[name]; !ok {
			return false
		}
	}
	return true
}

// SetHalted records a terminal rejection. Downstream stages check Halted
// before doing any work and propagate it unchanged.
func (s *Session) SetHalted(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = true
	s.haltReason = reason
}

// Halted reports whether an upstream stage short-circuited the run.
func (s *Session) Halted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.halted
}

// HaltReason returns the reason recorded by SetHalted, or "".
func (s *Session) HaltReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.haltReason
}

// ClearHalted resets the halted flag for a new topic.
func (s *Session) ClearHalted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = false
	s.haltReason = ""
}
