// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// FileService is an artifact service backed by a local directory, used by
// the demo CLIs so generated reports, images and audio land on disk where
// the user can open them.
//
// Layout: <root>/<app>/<user>/<session-or-user>/<filename>/<version> with a
// sidecar metadata file recording the MIME type.
type FileService struct {
	root string
	mu   sync.Mutex
}

var _ Service = (*FileService)(nil)

// blobMeta is the sidecar metadata stored next to each version.
type blobMeta struct {
	MIMEType string `json:"mime_type"`
}

// NewFileService creates a [FileService] rooted at dir, creating it if needed.
func NewFileService(dir string) (*FileService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FileService{root: dir}, nil
}

// Root returns the root directory artifacts are written under.
func (a *FileService) Root() string { return a.root }

// fileHasUserNamespace checks if the filename has a user namespace.
func (a *FileService) fileHasUserNamespace(filename string) bool {
	return strings.HasPrefix(filename, "user:")
}

// artifactDir is the directory holding all versions of one artifact.
func (a *FileService) artifactDir(appName, userID, sessionID, filename string) string {
	if a.fileHasUserNamespace(filename) {
		return filepath.Join(a.root, appName, userID, "user", strings.TrimPrefix(filename, "user:"))
	}
	return filepath.Join(a.root, appName, userID, sessionID, filename)
}

// SaveArtifact implements [Service].
func (a *FileService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dir := a.artifactDir(appName, userID, sessionID, filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create artifact dir: %w", err)
	}

	versions, err := a.versionsLocked(dir)
	if err != nil {
		return 0, err
	}
	version := 0
	if len(versions) > 0 {
		version = versions[len(versions)-1] + 1
	}

	path := filepath.Join(dir, strconv.Itoa(version))
	if err := os.WriteFile(path, artifact.InlineData.Data, 0o644); err != nil {
		return 0, fmt.Errorf("write artifact: %w", err)
	}

	meta, err := sonic.Marshal(blobMeta{MIMEType: artifact.InlineData.MIMEType})
	if err != nil {
		return 0, err
	}
	if err := os.WriteFile(path+".meta", meta, 0o644); err != nil {
		return 0, fmt.Errorf("write artifact metadata: %w", err)
	}

	return version, nil
}

// LoadArtifact implements [Service].
func (a *FileService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	dir := a.artifactDir(appName, userID, sessionID, filename)
	versions, err := a.versionsLocked(dir)
	if err != nil || len(versions) == 0 {
		return nil, err
	}
	if version < 0 {
		version = versions[len(versions)-1]
	} else if !slices.Contains(versions, version) {
		return nil, fmt.Errorf("artifact %s has no version %d", filename, version)
	}

	path := filepath.Join(dir, strconv.Itoa(version))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	mimeType := "application/octet-stream"
	if metaRaw, err := os.ReadFile(path + ".meta"); err == nil {
		var meta blobMeta
		if err := sonic.Unmarshal(metaRaw, &meta); err == nil && meta.MIMEType != "" {
			mimeType = meta.MIMEType
		}
	}

	return genai.NewPartFromBytes(data, mimeType), nil
}

// ListArtifactKeys implements [Service].
func (a *FileService) ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	filenames := []string{}

	sessionDir := filepath.Join(a.root, appName, userID, sessionID)
	if entries, err := os.ReadDir(sessionDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				filenames = append(filenames, entry.Name())
			}
		}
	}

	userDir := filepath.Join(a.root, appName, userID, "user")
	if entries, err := os.ReadDir(userDir); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				filenames = append(filenames, "user:"+entry.Name())
			}
		}
	}

	slices.Sort(filenames)
	return filenames, nil
}

// ListVersions implements [Service].
func (a *FileService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.versionsLocked(a.artifactDir(appName, userID, sessionID, filename))
}

// DeleteArtifact implements [Service].
func (a *FileService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	return os.RemoveAll(a.artifactDir(appName, userID, sessionID, filename))
}

// versionsLocked lists the sorted version numbers stored under dir.
func (a *FileService) versionsLocked(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	versions := []int{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".meta") {
			continue
		}
		version, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		versions = append(versions, version)
	}
	slices.Sort(versions)

	return versions, nil
}
