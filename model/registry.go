// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// CreatorFunc is a function type that creates a model instance.
type CreatorFunc func(ctx context.Context, apiKey, modelName string) (Model, error)

// entry is a registry entry with a regex pattern and model creator function.
type entry struct {
	pattern *regexp.Regexp
	creator CreatorFunc
}

// Registry resolves model implementations based on model-name patterns.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry creates a registry with the built-in Gemini and Claude backends.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(`gemini-.*`, func(ctx context.Context, apiKey, modelName string) (Model, error) {
		return NewGemini(ctx, apiKey, modelName)
	})
	r.Register(`claude-.*`, func(ctx context.Context, apiKey, modelName string) (Model, error) {
		return NewClaude(ctx, apiKey, modelName)
	})
	return r
}

// Register registers a model-name pattern with a creator function.
func (r *Registry) Register(modelPattern string, creator CreatorFunc) error {
	regex, err := regexp.Compile(modelPattern)
	if err != nil {
		return fmt.Errorf("compile model pattern %q: %w", modelPattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry{pattern: regex, creator: creator})
	return nil
}

// NewModel resolves modelName against the registered patterns and creates
// the model.
func (r *Registry) NewModel(ctx context.Context, apiKey, modelName string) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.entries {
		if e.pattern.MatchString(modelName) {
			return e.creator(ctx, apiKey, modelName)
		}
	}

	return nil, fmt.Errorf("no model registered for name %q", modelName)
}
