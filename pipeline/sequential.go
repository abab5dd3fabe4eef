// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/session"
)

// Sequential runs its stages one at a time in declared order.
//
// A stage returning Halt stops the run: the halt reason is recorded on the
// session and every later stage is skipped without doing any work or
// writing any state key. A stage returning an error fails the run
// (fail-fast, no partial continuation).
type Sequential struct {
	name   string
	stages []Stage
}

var _ Stage = (*Sequential)(nil)

// NewSequential creates a new sequential pipeline with the given name.
func NewSequential(name string, stages ...Stage) *Sequential {
	return &Sequential{
		name:   name,
		stages: stages,
	}
}

// WithStages sets the stages for the sequential pipeline.
func (p *Sequential) WithStages(stages ...Stage) *Sequential {
	p.stages = stages
	return p
}

// Name implements [Stage].
func (p *Sequential) Name() string { return p.name }

// Run implements [Stage].
func (p *Sequential) Run(ctx context.Context, sess *session.Session) (*Result, error) {
	logger := logging.FromContext(ctx)

	for _, stage := range p.stages {
		if sess.Halted() {
			logger.DebugContext(ctx, "skipping stage, pipeline halted",
				slog.String("pipeline", p.name),
				slog.String("stage", stage.Name()),
			)
			continue
		}

		result, err := stage.Run(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}

		switch result.Status {
		case StatusHalt:
			logger.InfoContext(ctx, "pipeline halted",
				slog.String("pipeline", p.name),
				slog.String("stage", stage.Name()),
				slog.String("reason", result.Reason),
			)
			sess.SetHalted(result.Reason)

		case StatusContinue:
			if len(result.Output) > 0 {
				sess.State().Update(result.Output)
			}
			sess.MarkCompleted(stage.Name())
		}
	}

	if sess.Halted() {
		return Halt(sess.HaltReason()), nil
	}
	return Continue(nil), nil
}
