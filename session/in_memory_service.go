// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/go-a2a/adk-demos/pkg/logging"
)

// Service manages the lifecycle of sessions.
type Service interface {
	// CreateSession creates a new session. An empty sessionID is replaced
	// with a fresh UUID.
	CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (*Session, error)

	// GetSession retrieves a session by ID.
	GetSession(ctx context.Context, appName, userID, sessionID string) (*Session, error)

	// ListSessions lists the session IDs for the given app and user.
	ListSessions(ctx context.Context, appName, userID string) ([]string, error)

	// DeleteSession deletes the session.
	DeleteSession(ctx context.Context, appName, userID, sessionID string) error
}

// InMemoryService is an in-memory implementation of [Service].
type InMemoryService struct {
	// sessions is a map from app name to a map from user ID to a map from
	// session ID to session.
	sessions map[string]map[string]map[string]*Session

	mu sync.RWMutex
}

var _ Service = (*InMemoryService)(nil)

// NewInMemoryService creates a new [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		sessions: make(map[string]map[string]map[string]*Session),
	}
}

// CreateSession implements [Service].
func (s *InMemoryService) CreateSession(ctx context.Context, appName, userID, sessionID string, state map[string]any) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	logging.FromContext(ctx).InfoContext(ctx, "Creating session",
		slog.String("app_name", appName),
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	sess := NewSession(appName, userID, sessionID, state)

	if _, ok := s.sessions[appName]; !ok {
		s.sessions[appName] = make(map[string]map[string]*Session)
	}
	if _, ok := s.sessions[appName][userID]; !ok {
		s.sessions[appName][userID] = make(map[string]*Session)
	}
	s.sessions[appName][userID][sessionID] = sess

	return sess, nil
}

// GetSession implements [Service].
func (s *InMemoryService) GetSession(ctx context.Context, appName, userID, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[appName]; !ok {
		return nil, fmt.Errorf("app %s not found", appName)
	}
	if _, ok := s.sessions[appName][userID]; !ok {
		return nil, fmt.Errorf("user %s not found for app %s", userID, appName)
	}
	sess, ok := s.sessions[appName][userID][sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found for user %s in app %s", sessionID, userID, appName)
	}

	return sess, nil
}

// ListSessions implements [Service].
func (s *InMemoryService) ListSessions(ctx context.Context, appName, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for id := range s.sessions[appName][userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteSession implements [Service].
func (s *InMemoryService) DeleteSession(ctx context.Context, appName, userID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if users, ok := s.sessions[appName]; ok {
		if sessions, ok := users[userID]; ok {
			delete(sessions, sessionID)
		}
	}
	return nil
}
