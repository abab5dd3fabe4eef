// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool declares the side-effecting functions a stage may call:
// web search, places lookup, sandboxed code execution, and image/audio
// generation. Each tool is consumed through a narrow interface; no tool
// result is post-processed beyond shaping it for prompt injection.
package tool

import (
	"context"
	"errors"

	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/session"
)

// Context carries the session scope a tool runs in, so tools that produce
// artifacts can save them under the right app/user/session path.
type Context struct {
	// Session is the conversation the tool call belongs to.
	Session *session.Session

	// Artifacts is the artifact store, nil when the tool produces none.
	Artifacts artifact.Service
}

// Tool represents a declared, side-effecting function a stage may call.
type Tool interface {
	// Name returns the name of the tool.
	Name() string

	// Description returns the description of the tool.
	Description() string

	// Run executes the tool with the given arguments.
	Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error)
}

// base implements the name/description half of [Tool].
type base struct {
	name        string
	description string
}

// newBase returns the base tool with the given name and description.
func newBase(name, description string) base {
	return base{
		name:        name,
		description: description,
	}
}

// Name implements [Tool].
func (t base) Name() string { return t.name }

// Description implements [Tool].
func (t base) Description() string { return t.description }

// Run implements [Tool].
func (t base) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	return nil, errors.New("not implemented")
}

// StringArg extracts a required string argument.
func StringArg(args map[string]any, key string) (string, error) {
	val, ok := args[key]
	if !ok {
		return "", errors.New("missing argument: " + key)
	}
	str, ok := val.(string)
	if !ok {
		return "", errors.New("argument is not a string: " + key)
	}
	return str, nil
}
