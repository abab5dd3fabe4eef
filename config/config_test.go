// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.ModelName)
	assert.Equal(t, "local", cfg.Sandbox)
	assert.Equal(t, 30*time.Second, cfg.SandboxTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
	assert.Equal(t, "file", cfg.ArtifactBackend)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRunTimeout(t *testing.T) {
	t.Setenv("ADK_DEMOS_RUN_TIMEOUT", "90s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.RunTimeout)

	t.Setenv("ADK_DEMOS_RUN_TIMEOUT", "0s")
	_, err = Load()
	assert.Error(t, err, "a zero turn deadline would never fire")
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADK_DEMOS_MODEL_NAME", "claude-3-5-sonnet-latest")
	t.Setenv("ADK_DEMOS_SANDBOX", "container")
	t.Setenv("ADK_DEMOS_ARTIFACT_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-3-5-sonnet-latest", cfg.ModelName)
	assert.Equal(t, "container", cfg.Sandbox)
	assert.Equal(t, "memory", cfg.ArtifactBackend)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("ADK_DEMOS_SANDBOX", "chroot")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadGCSRequiresBucket(t *testing.T) {
	t.Setenv("ADK_DEMOS_ARTIFACT_BACKEND", "gcs")
	t.Setenv("ADK_DEMOS_GCS_BUCKET", "")
	_, err := Load()
	assert.Error(t, err)
}
