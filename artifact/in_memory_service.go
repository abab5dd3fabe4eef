// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// InMemoryService is an in-memory implementation of the artifact service.
type InMemoryService struct {
	artifacts map[string][]*genai.Part
	mu        sync.Mutex
}

var _ Service = (*InMemoryService)(nil)

// NewInMemoryService creates a new instance of [InMemoryService].
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		artifacts: make(map[string][]*genai.Part),
	}
}

// fileHasUserNamespace checks if the filename has a user namespace.
func (a *InMemoryService) fileHasUserNamespace(filename string) bool {
	return strings.HasPrefix(filename, "user:")
}

// artifactPath constructs the artifact path.
func (a *InMemoryService) artifactPath(appName, userID, sessionID, filename string) string {
	if a.fileHasUserNamespace(filename) {
		return fmt.Sprintf("%s/%s/user/%s", appName, userID, filename)
	}
	return fmt.Sprintf("%s/%s/%s/%s", appName, userID, sessionID, filename)
}

// SaveArtifact implements [Service].
func (a *InMemoryService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	version := len(a.artifacts[path])
	a.artifacts[path] = append(a.artifacts[path], artifact)

	return version, nil
}

// LoadArtifact implements [Service].
func (a *InMemoryService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions, ok := a.artifacts[path]
	if !ok {
		return nil, nil
	}
	if version < 0 {
		version = len(versions) - 1
	}
	if version >= len(versions) {
		return nil, fmt.Errorf("artifact %s has no version %d", filename, version)
	}

	return versions[version], nil
}

// ListArtifactKeys implements [Service].
func (a *InMemoryService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sessionPrefix := fmt.Sprintf("%s/%s/%s/", appName, userID, sessionID)
	userNamespacePrefix := fmt.Sprintf("%s/%s/user/", appName, userID)

	filenames := []string{}
	for path := range a.artifacts {
		switch {
		case strings.HasPrefix(path, sessionPrefix):
			filenames = append(filenames, strings.TrimPrefix(path, sessionPrefix))

		case strings.HasPrefix(path, userNamespacePrefix):
			filenames = append(filenames, strings.TrimPrefix(path, userNamespacePrefix))
		}
	}
	slices.Sort(filenames)

	return filenames, nil
}

// ListVersions implements [Service].
func (a *InMemoryService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := a.artifactPath(appName, userID, sessionID, filename)
	versions, ok := a.artifacts[path]
	if !ok {
		return nil, nil
	}

	result := make([]int, len(versions))
	for i := range versions {
		result[i] = i
	}
	return result, nil
}

// DeleteArtifact implements [Service].
func (a *InMemoryService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.artifacts, a.artifactPath(appName, userID, sessionID, filename))
	return nil
}
