// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"

	"github.com/go-a2a/adk-demos/session"
)

// Stage is one named unit of work: it reads session-state keys it depends
// on, performs at most one external call, and returns the keys it owns.
type Stage interface {
	// Name returns the stage name, used as the completion-set member and in logs.
	Name() string

	// Run executes the stage. A nil error with a Halt result stops the
	// pipeline without failing it; a non-nil error fails the pipeline.
	Run(ctx context.Context, sess *session.Session) (*Result, error)
}

// Status tags a stage result. The runner branches on the tag, never on the
// emptiness of an output field.
type Status int

const (
	// StatusContinue means the stage produced output and the pipeline proceeds.
	StatusContinue Status = iota

	// StatusHalt means the stage rejected the request; the pipeline stops
	// and the reason is surfaced to the user verbatim.
	StatusHalt
)

// String returns the name of the status.
func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusHalt:
		return "halt"
	default:
		return "unknown"
	}
}

// Result is the tagged outcome of a stage run.
type Result struct {
	// Status is the result tag.
	Status Status

	// Output holds the state keys the stage owns. Applied to the session
	// state by the runner on StatusContinue.
	Output map[string]any

	// Reason is the user-facing rejection text. Set on StatusHalt.
	Reason string
}

// Continue returns a [Result] carrying the stage's output keys.
func Continue(output map[string]any) *Result {
	return &Result{Status: StatusContinue, Output: output}
}

// Halt returns a [Result] that stops the pipeline with the given user-facing reason.
func Halt(reason string) *Result {
	return &Result{Status: StatusHalt, Reason: reason}
}

// StageFunc adapts a function to the [Stage] interface.
type StageFunc struct {
	name string
	fn   func(ctx context.Context, sess *session.Session) (*Result, error)
}

var _ Stage = (*StageFunc)(nil)

// NewStageFunc returns a [Stage] backed by fn.
func NewStageFunc(name string, fn func(ctx context.Context, sess *session.Session) (*Result, error)) *StageFunc {
	return &StageFunc{name: name, fn: fn}
}

// Name implements [Stage].
func (s *StageFunc) Name() string { return s.name }

// Run implements [Stage].
func (s *StageFunc) Run(ctx context.Context, sess *session.Session) (*Result, error) {
	return s.fn(ctx, sess)
}
