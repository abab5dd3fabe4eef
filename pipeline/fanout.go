// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/session"
)

// FailedKeyPrefix prefixes the state key under which a failed branch's
// error text is recorded. Failures are modeled explicitly so the
// completion set never counts a failure as success.
const FailedKeyPrefix = "failed:"

// FanOut runs its branches concurrently and waits for all of them.
//
// Branches don't depend on each other's output, only on the common upstream
// state, and write disjoint output keys by convention. One branch's failure
// does not stop or roll back the others; each failure is surfaced
// separately in the returned [FanOutReport].
type FanOut struct {
	name     string
	branches []Stage
}

// FanOutReport is the join result of a fan-out run.
type FanOutReport struct {
	// Succeeded holds the names of branches that completed.
	Succeeded []string

	// Failed maps a branch name to the error that stopped it.
	Failed map[string]error
}

// AllSucceeded reports whether every branch completed.
func (r *FanOutReport) AllSucceeded() bool {
	return len(r.Failed) == 0
}

// NewFanOut creates a new fan-out with the given name and branches.
func NewFanOut(name string, branches ...Stage) *FanOut {
	return &FanOut{
		name:     name,
		branches: branches,
	}
}

// Name returns the fan-out name.
func (f *FanOut) Name() string { return f.name }

// branchResult holds one branch's outcome with metadata for the join.
type branchResult struct {
	name   string
	result *Result
	err    error
}

// Run executes all branches and joins on their completion.
//
// Each branch runs under ctx; a branch that never signals completion is
// bounded by the ctx deadline and surfaces as a failure with the context's
// error. A session halted upstream yields an empty report because no
// branch does any work.
func (f *FanOut) Run(ctx context.Context, sess *session.Session) (*FanOutReport, error) {
	logger := logging.FromContext(ctx)

	report := &FanOutReport{
		Failed: make(map[string]error),
	}

	if sess.Halted() || len(f.branches) == 0 {
		return report, nil
	}

	resultCh := make(chan branchResult)
	wg := new(sync.WaitGroup)

	for _, branch := range f.branches {
		wg.Add(1)
		go func(branch Stage) {
			defer wg.Done()

			result, err := branch.Run(ctx, sess)
			select {
			case resultCh <- branchResult{name: branch.Name(), result: result, err: err}:
			case <-ctx.Done():
			}
		}(branch)
	}

	// Close resultCh when all branches complete.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		switch {
		case res.err != nil:
			logger.WarnContext(ctx, "fan-out branch failed",
				slog.String("fanout", f.name),
				slog.String("branch", res.name),
				slog.Any("error", res.err),
			)
			report.Failed[res.name] = res.err
			sess.State().Set(FailedKeyPrefix+res.name, res.err.Error())

		case res.result.Status == StatusHalt:
			// A branch cannot halt siblings; treat its halt as its own failure.
			report.Failed[res.name] = &BranchHaltedError{Branch: res.name, Reason: res.result.Reason}
			sess.State().Set(FailedKeyPrefix+res.name, res.result.Reason)

		default:
			if len(res.result.Output) > 0 {
				sess.State().Update(res.result.Output)
			}
			sess.MarkCompleted(res.name)
			report.Succeeded = append(report.Succeeded, res.name)
		}
	}

	if err := ctx.Err(); err != nil {
		// Branches that never reported are failed with the context error.
		for _, branch := range f.branches {
			if !sess.Completed(branch.Name()) {
				if _, ok := report.Failed[branch.Name()]; !ok {
					report.Failed[branch.Name()] = err
					sess.State().Set(FailedKeyPrefix+branch.Name(), err.Error())
				}
			}
		}
	}

	return report, nil
}

// BranchHaltedError reports a fan-out branch that returned a Halt result.
type BranchHaltedError struct {
	Branch string
	Reason string
}

// Error implements the error interface.
func (e *BranchHaltedError) Error() string {
	return "fan-out branch " + e.Branch + " halted: " + e.Reason
}
