// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package codeexec

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// defaultImage is the sandbox image used when none is configured.
const defaultImage = "python:3.12-slim"

// workspaceDir is the working directory inside the sandbox container.
const workspaceDir = "/workspace"

// ContainerExecutor executes code inside a Docker container.
//
// This provides a safer execution environment compared to local execution:
// the container has no network, bounded memory and is removed after each
// call.
type ContainerExecutor struct {
	config *Config

	// image is the tag of the sandbox image to run.
	image string

	client *client.Client

	containerConfig *container.Config
	hostConfig      *container.HostConfig

	// memoryLimit in bytes.
	memoryLimit int64
}

var _ Executor = (*ContainerExecutor)(nil)

// ContainerOption is a functional option for configuring [ContainerExecutor].
type ContainerOption func(*ContainerExecutor)

// WithDockerClient sets a custom Docker client.
func WithDockerClient(c *client.Client) ContainerOption {
	return func(e *ContainerExecutor) {
		e.client = c
	}
}

// WithImage sets the sandbox image tag.
func WithImage(imageTag string) ContainerOption {
	return func(e *ContainerExecutor) {
		e.image = imageTag
	}
}

// WithMemoryLimit sets the container memory limit in bytes.
func WithMemoryLimit(limit int64) ContainerOption {
	return func(e *ContainerExecutor) {
		e.memoryLimit = limit
	}
}

// NewContainerExecutor creates a new container-backed code executor and
// verifies the Docker daemon is reachable.
func NewContainerExecutor(ctx context.Context, config *Config, opts ...ContainerOption) (*ContainerExecutor, error) {
	if config == nil {
		config = DefaultConfig()
	}

	executor := &ContainerExecutor{
		config:      config,
		image:       defaultImage,
		memoryLimit: 512 * 1024 * 1024,
	}
	for _, opt := range opts {
		opt(executor)
	}

	if executor.client == nil {
		c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
		if err != nil {
			return nil, fmt.Errorf("failed to create docker client: %w", err)
		}
		executor.client = c
	}

	if _, err := executor.client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("docker daemon is not reachable: %w", err)
	}

	executor.containerConfig = &container.Config{
		Image:      executor.image,
		WorkingDir: workspaceDir,
		Cmd:        []string{"sleep", "infinity"},
	}
	executor.hostConfig = &container.HostConfig{
		NetworkMode: "none",
		Resources: container.Resources{
			Memory: executor.memoryLimit,
		},
	}

	return executor, nil
}

// ExecuteCode implements [Executor].
func (e *ContainerExecutor) ExecuteCode(ctx context.Context, input *Input) (*Result, error) {
	startTime := time.Now()

	containerID, err := e.createContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}
	defer e.cleanupContainer(context.WithoutCancel(ctx), containerID)

	if err := e.copyFilesToContainer(ctx, containerID, input.InputFiles); err != nil {
		return nil, fmt.Errorf("failed to copy files to container: %w", err)
	}

	result, err := e.runCode(ctx, containerID, input)
	if err != nil {
		return nil, err
	}

	outputFiles, err := e.copyFilesFromContainer(ctx, containerID, input)
	if err != nil {
		return nil, fmt.Errorf("failed to copy output files: %w", err)
	}
	result.OutputFiles = outputFiles
	result.ExecutionTime = time.Since(startTime)

	return result, nil
}

// createContainer pulls the image if needed, then creates and starts the
// sandbox container.
func (e *ContainerExecutor) createContainer(ctx context.Context) (string, error) {
	createCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := e.ensureImage(createCtx); err != nil {
		return "", fmt.Errorf("failed to ensure image: %w", err)
	}

	resp, err := e.client.ContainerCreate(createCtx, e.containerConfig, e.hostConfig, nil, nil, "")
	if err != nil {
		return "", err
	}

	if err := e.client.ContainerStart(createCtx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	return resp.ID, nil
}

// ensureImage pulls the sandbox image when it is not present locally.
func (e *ContainerExecutor) ensureImage(ctx context.Context) error {
	images, err := e.client.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return err
	}
	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == e.image {
				return nil
			}
		}
	}

	reader, err := e.client.ImagePull(ctx, e.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", e.image, err)
	}
	defer reader.Close()

	_, err = io.Copy(io.Discard, reader)
	return err
}

// copyFilesToContainer writes the input files into the container workspace.
func (e *ContainerExecutor) copyFilesToContainer(ctx context.Context, containerID string, files []*File) error {
	if len(files) == 0 {
		return nil
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, file := range files {
		hdr := &tar.Header{
			Name: file.Name,
			Mode: 0o644,
			Size: int64(len(file.Content)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if _, err := tw.Write(file.Content); err != nil {
			return err
		}
	}
	if err := tw.Close(); err != nil {
		return err
	}

	return e.client.CopyToContainer(ctx, containerID, workspaceDir, &buf, container.CopyToContainerOptions{})
}

// runCode executes the script inside the container and captures its output.
func (e *ContainerExecutor) runCode(ctx context.Context, containerID string, input *Input) (*Result, error) {
	language := strings.ToLower(input.Language)
	if language != "" && language != "python" && language != "py" {
		return nil, fmt.Errorf("unsupported language %q", input.Language)
	}

	execCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	execConfig := container.ExecOptions{
		Cmd:          []string{"python3", "-c", input.Code},
		AttachStdout: true,
		AttachStderr: true,
		WorkingDir:   workspaceDir,
	}

	execResp, err := e.client.ContainerExecCreate(execCtx, containerID, execConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create exec instance: %w", err)
	}

	attachResp, err := e.client.ContainerExecAttach(execCtx, execResp.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach to exec instance: %w", err)
	}
	defer attachResp.Close()

	output, err := io.ReadAll(attachResp.Reader)
	if err != nil {
		return nil, err
	}

	// Docker multiplexes stdout/stderr with an 8-byte frame header.
	var stdout bytes.Buffer
	if len(output) > 8 {
		stdout.Write(output[8:])
	}

	if _, err := e.client.ContainerExecInspect(execCtx, execResp.ID); err != nil {
		return nil, fmt.Errorf("failed to inspect exec instance: %w", err)
	}

	return &Result{Stdout: stdout.String()}, nil
}

// copyFilesFromContainer collects files the script created in the workspace.
func (e *ContainerExecutor) copyFilesFromContainer(ctx context.Context, containerID string, input *Input) ([]*File, error) {
	reader, _, err := e.client.CopyFromContainer(ctx, containerID, workspaceDir)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	inputNames := make(map[string]struct{}, len(input.InputFiles))
	for _, f := range input.InputFiles {
		inputNames[f.Name] = struct{}{}
	}

	var files []*File
	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		name := filepath.Base(hdr.Name)
		if _, ok := inputNames[name]; ok {
			continue
		}

		content, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		files = append(files, &File{
			Name:     name,
			Content:  content,
			MIMEType: mimeTypeForName(name),
		})
	}
	return files, nil
}

// cleanupContainer force-removes the sandbox container.
func (e *ContainerExecutor) cleanupContainer(ctx context.Context, containerID string) {
	_ = e.client.ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: true,
	})
}

// Close implements [Executor].
func (e *ContainerExecutor) Close() error {
	return e.client.Close()
}
