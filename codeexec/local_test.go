// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package codeexec

import (
	"strings"
	"testing"
	"time"
)

func TestNewLocalExecutorRequiresExplicitOptIn(t *testing.T) {
	t.Parallel()

	// Running model-generated code on the host is never a silent default.
	if _, err := NewLocalExecutor(DefaultConfig()); err == nil {
		t.Error("NewLocalExecutor without WithAllowUnsafe succeeded, want error")
	}

	e, err := NewLocalExecutor(DefaultConfig(), WithAllowUnsafe(true))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
	}
}

func TestResultOutput(t *testing.T) {
	t.Parallel()

	r := &Result{Stdout: "ok\n", Stderr: "warning: deprecation\n"}
	out := r.Output()
	if out == "" {
		t.Fatal("Output is empty")
	}
	for _, want := range []string{"ok", "warning: deprecation"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output %q missing %q", out, want)
		}
	}
}
