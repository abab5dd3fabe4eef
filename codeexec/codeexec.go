// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package codeexec runs model-composed scripts in an isolated, time-boxed
// sandbox and returns their captured output. The model's role is restricted
// to composing the computation; a real interpreter performs it.
package codeexec

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/go-json-experiment/json"
)

// File is a named input or output file of a code execution.
type File struct {
	// Name is the file name relative to the sandbox working directory.
	Name string

	// Content is the raw file content.
	Content []byte

	// MIMEType is the MIME type of the content.
	MIMEType string
}

// MarshalJSON encodes the content as base64 for persistence.
func (f *File) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		MIMEType string `json:"mime_type"`
	}{
		Name:     f.Name,
		Content:  base64.StdEncoding.EncodeToString(f.Content),
		MIMEType: f.MIMEType,
	})
}

// UnmarshalJSON decodes the base64 content.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name     string `json:"name"`
		Content  string `json:"content"`
		MIMEType string `json:"mime_type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	content, err := base64.StdEncoding.DecodeString(raw.Content)
	if err != nil {
		return err
	}

	f.Name = raw.Name
	f.Content = content
	f.MIMEType = raw.MIMEType
	return nil
}

// Input is one code execution request.
type Input struct {
	// Code is the source to execute.
	Code string

	// Language is the source language ("python" by default).
	Language string

	// InputFiles are written into the sandbox before execution.
	InputFiles []*File
}

// Result is the outcome of one code execution.
type Result struct {
	// Stdout is the captured standard output.
	Stdout string

	// Stderr is the captured standard error.
	Stderr string

	// OutputFiles are files the script created in the sandbox.
	OutputFiles []*File

	// ExecutionTime is how long the execution took.
	ExecutionTime time.Duration
}

// Output returns stdout and stderr combined, the text fed back to the
// model for interpretation.
func (r *Result) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	return r.Stdout + "\n" + r.Stderr
}

// Executor executes code in an isolated environment. Execution is
// time-boxed and stateless between calls.
type Executor interface {
	// ExecuteCode runs the provided code and returns the execution result.
	ExecuteCode(ctx context.Context, input *Input) (*Result, error)

	// Close cleans up any resources used by the executor.
	Close() error
}

// Config holds configuration options for executors.
type Config struct {
	// Timeout bounds a single execution.
	Timeout time.Duration

	// MaxRetries is the number of attempts to retry on execution errors.
	MaxRetries int

	// RetryDelay is the delay between retry attempts.
	RetryDelay time.Duration
}

// DefaultConfig returns an execution config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 2,
		RetryDelay: 1 * time.Second,
	}
}

// Option is a functional option for configuring executors.
type Option func(*Config)

// WithTimeout sets the execution timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithMaxRetries sets the maximum number of retry attempts.
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		c.MaxRetries = retries
	}
}

// WithRetryDelay sets the delay between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = delay
	}
}
