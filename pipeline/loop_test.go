// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/go-a2a/adk-demos/session"
)

func TestLoopStopsWhenConditionMet(t *testing.T) {
	t.Parallel()

	iterations := 0
	body := NewStageFunc("revise", func(ctx context.Context, sess *session.Session) (*Result, error) {
		iterations++
		return Continue(map[string]any{"iterations": iterations}), nil
	})

	sess := newTestSession()
	l := NewLoop("refine", body, func(sess *session.Session) bool {
		got, _ := sess.State().Get("iterations")
		return got == 3
	})

	result, err := l.Run(context.Background(), sess)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusContinue {
		t.Errorf("Run status = %v, want %v", result.Status, StatusContinue)
	}
	if iterations != 3 {
		t.Errorf("body ran %d times, want 3", iterations)
	}
	if !sess.Completed("refine") {
		t.Error("loop not marked completed")
	}
}

func TestLoopErrorsWithoutConvergence(t *testing.T) {
	t.Parallel()

	body := NewStageFunc("revise", func(ctx context.Context, sess *session.Session) (*Result, error) {
		return Continue(nil), nil
	})

	sess := newTestSession()
	l := NewLoop("refine", body, func(*session.Session) bool { return false }).WithMaxIterations(4)

	_, err := l.Run(context.Background(), sess)
	if err == nil || !strings.Contains(err.Error(), "no convergence after 4 iterations") {
		t.Fatalf("Run error = %v, want no-convergence error", err)
	}
}

func TestLoopPropagatesBodyHalt(t *testing.T) {
	t.Parallel()

	sess := newTestSession()
	l := NewLoop("refine", haltStage("revise", "cannot improve further"), func(*session.Session) bool { return false })

	result, err := l.Run(context.Background(), sess)
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != StatusHalt || result.Reason != "cannot improve further" {
		t.Errorf("Run result = %+v, want halt with body reason", result)
	}
}
