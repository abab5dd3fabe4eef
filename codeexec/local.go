// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package codeexec

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// LocalExecutor executes code as a local subprocess.
//
// WARNING: this executor runs arbitrary code with the same privileges as
// the calling process. Use only in trusted environments; it requires an
// explicit opt-in.
type LocalExecutor struct {
	config *Config

	// allowUnsafe must be explicitly set to true to enable this executor.
	allowUnsafe bool

	// pythonBinary is the interpreter to invoke, "python3" by default.
	pythonBinary string
}

var _ Executor = (*LocalExecutor)(nil)

// LocalOption is a functional option for configuring [LocalExecutor].
type LocalOption func(*LocalExecutor)

// WithAllowUnsafe explicitly enables unsafe local execution.
func WithAllowUnsafe(allow bool) LocalOption {
	return func(e *LocalExecutor) {
		e.allowUnsafe = allow
	}
}

// WithPythonBinary sets the interpreter binary.
func WithPythonBinary(binary string) LocalOption {
	return func(e *LocalExecutor) {
		e.pythonBinary = binary
	}
}

// NewLocalExecutor creates a new local code executor.
func NewLocalExecutor(config *Config, opts ...LocalOption) (*LocalExecutor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	executor := &LocalExecutor{
		config:       config,
		pythonBinary: "python3",
	}
	for _, opt := range opts {
		opt(executor)
	}

	if !executor.allowUnsafe {
		return nil, fmt.Errorf("local executor requires explicit opt-in via WithAllowUnsafe(true)")
	}

	return executor, nil
}

// ExecuteCode implements [Executor].
//
// Each call runs in a fresh temporary directory; files the script creates
// there are collected as output files. Failed executions are retried up to
// the configured number of attempts.
func (e *LocalExecutor) ExecuteCode(ctx context.Context, input *Input) (*Result, error) {
	startTime := time.Now()

	var result *Result
	var lastErr error
	for attempt := 0; attempt <= e.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.config.RetryDelay):
			}
		}

		result, lastErr = e.executeOnce(ctx, input)
		if lastErr == nil {
			break
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}

	result.ExecutionTime = time.Since(startTime)
	return result, nil
}

// Close implements [Executor].
func (e *LocalExecutor) Close() error {
	return nil
}

func (e *LocalExecutor) executeOnce(ctx context.Context, input *Input) (*Result, error) {
	workDir, err := os.MkdirTemp("", "adk-demos-sandbox-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	for _, file := range input.InputFiles {
		if err := os.WriteFile(filepath.Join(workDir, file.Name), file.Content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write input file %s: %w", file.Name, err)
		}
	}

	language := strings.ToLower(input.Language)
	if language != "" && language != "python" && language != "py" {
		return nil, fmt.Errorf("unsupported language %q", input.Language)
	}

	scriptFile := filepath.Join(workDir, "code.py")
	if err := os.WriteFile(scriptFile, []byte(input.Code), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write script: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, e.pythonBinary, scriptFile)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if execCtx.Err() != nil {
		return nil, fmt.Errorf("execution timed out after %s", e.config.Timeout)
	}

	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	// A non-zero exit with captured stderr is an execution result, not a
	// sandbox failure; the model interprets the error text.
	if runErr != nil && result.Stderr == "" {
		return nil, fmt.Errorf("execution failed: %w", runErr)
	}

	outputFiles, err := collectOutputFiles(workDir, scriptFile, input.InputFiles)
	if err != nil {
		return nil, err
	}
	result.OutputFiles = outputFiles

	return result, nil
}

// collectOutputFiles gathers files the script created in the sandbox.
func collectOutputFiles(workDir, scriptFile string, inputs []*File) ([]*File, error) {
	inputNames := make(map[string]struct{}, len(inputs))
	for _, f := range inputs {
		inputNames[f.Name] = struct{}{}
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sandbox directory: %w", err)
	}

	var files []*File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Join(workDir, name) == scriptFile {
			continue
		}
		if _, ok := inputNames[name]; ok {
			continue
		}

		content, err := os.ReadFile(filepath.Join(workDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read output file %s: %w", name, err)
		}
		files = append(files, &File{
			Name:     name,
			Content:  content,
			MIMEType: mimeTypeForName(name),
		})
	}
	return files, nil
}

// mimeTypeForName maps a file extension to a MIME type for the formats the
// sandbox produces.
func mimeTypeForName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
