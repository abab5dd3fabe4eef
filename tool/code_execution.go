// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"

	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/codeexec"
)

// CodeExecutionTool runs model-composed scripts in the sandbox and saves
// the executed source alongside the result for auditability.
type CodeExecutionTool struct {
	base

	executor codeexec.Executor
}

var _ Tool = (*CodeExecutionTool)(nil)

// NewCodeExecutionTool creates a code execution tool backed by executor.
func NewCodeExecutionTool(executor codeexec.Executor) *CodeExecutionTool {
	return &CodeExecutionTool{
		base:     newBase("code_execution", "Executes a Python script in an isolated sandbox and returns its output."),
		executor: executor,
	}
}

// Execute runs code and retains the source as a session artifact when an
// artifact store is available.
func (t *CodeExecutionTool) Execute(ctx context.Context, code string, toolCtx *Context) (*codeexec.Result, error) {
	result, err := t.executor.ExecuteCode(ctx, &codeexec.Input{
		Code:     code,
		Language: "python",
	})
	if err != nil {
		return nil, err
	}

	if toolCtx != nil && toolCtx.Artifacts != nil && toolCtx.Session != nil {
		sess := toolCtx.Session
		// Best effort: a failed audit save must not void the computation.
		_, _ = toolCtx.Artifacts.SaveArtifact(ctx,
			sess.AppName(), sess.UserID(), sess.ID(),
			"executed_script.py",
			artifact.NewTextPart(code, "text/x-python"),
		)
	}

	return result, nil
}

// Run implements [Tool].
func (t *CodeExecutionTool) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	code, err := StringArg(args, "code")
	if err != nil {
		return nil, err
	}
	return t.Execute(ctx, code, toolCtx)
}
