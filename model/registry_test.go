// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"strings"
	"testing"
)

func TestRegistryResolvesCustomPattern(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if err := r.Register(`scripted-.*`, func(ctx context.Context, apiKey, modelName string) (Model, error) {
		return &scriptedModel{responses: []string{"ok"}}, nil
	}); err != nil {
		t.Fatal(err)
	}

	m, err := r.NewModel(context.Background(), "", "scripted-v1")
	if err != nil {
		t.Fatal(err)
	}
	if m.Name() != "scripted" {
		t.Errorf("Name = %q, want scripted", m.Name())
	}
}

func TestRegistryUnknownModelName(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry().NewModel(context.Background(), "", "gpt-4o")
	if err == nil || !strings.Contains(err.Error(), "no model registered") {
		t.Fatalf("NewModel error = %v, want no-model-registered error", err)
	}
}

func TestRegistryRejectsBadPattern(t *testing.T) {
	t.Parallel()

	if err := NewRegistry().Register(`claude-[`, nil); err == nil {
		t.Error("Register with an invalid pattern succeeded, want error")
	}
}
