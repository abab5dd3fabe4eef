// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"

	"github.com/go-a2a/adk-demos/session"
)

// Loop reruns its body stage until the condition reports done or the
// maximum number of iterations is reached.
type Loop struct {
	name string
	body Stage

	// until reports whether the loop should stop, inspected after each
	// body run.
	until func(sess *session.Session) bool

	// maxIterations bounds the loop. If not set, the loop runs up to the
	// default of 10 iterations.
	maxIterations int
}

var _ Stage = (*Loop)(nil)

// NewLoop creates a new loop with the given name, body and stop condition.
func NewLoop(name string, body Stage, until func(sess *session.Session) bool) *Loop {
	return &Loop{
		name:          name,
		body:          body,
		until:         until,
		maxIterations: 10, // Default
	}
}

// WithMaxIterations sets the maximum number of iterations.
func (l *Loop) WithMaxIterations(maxIterations int) *Loop {
	l.maxIterations = maxIterations
	return l
}

// Name implements [Stage].
func (l *Loop) Name() string { return l.name }

// Run implements [Stage].
func (l *Loop) Run(ctx context.Context, sess *session.Session) (*Result, error) {
	for i := 0; i < l.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sess.Halted() {
			return Halt(sess.HaltReason()), nil
		}

		result, err := l.body.Run(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("loop %s iteration %d: %w", l.name, i, err)
		}
		if result.Status == StatusHalt {
			return result, nil
		}
		if len(result.Output) > 0 {
			sess.State().Update(result.Output)
		}

		if l.until(sess) {
			sess.MarkCompleted(l.name)
			return Continue(nil), nil
		}
	}

	return nil, fmt.Errorf("loop %s: no convergence after %d iterations", l.name, l.maxIterations)
}
