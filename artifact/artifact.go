// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact persists named binary or text outputs (reports, images,
// audio) produced by the generation stages. Artifacts are versioned by
// save order and scoped to an app, user and session; a "user:" filename
// prefix scopes an artifact to the user across sessions.
package artifact

import (
	"context"

	"google.golang.org/genai"
)

// Service stores and retrieves versioned artifacts.
type Service interface {
	// SaveArtifact persists the artifact and returns its version identifier.
	SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error)

	// LoadArtifact loads the artifact at the given version; a negative
	// version loads the latest. A version that was never saved is an
	// error.
	LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error)

	// ListArtifactKeys lists the artifact filenames in the session scope.
	ListArtifactKeys(ctx context.Context, appName, userID, sessionID string) ([]string, error)

	// ListVersions lists the stored versions of the artifact.
	ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error)

	// DeleteArtifact removes all versions of the artifact.
	DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error
}

// NewPart builds a [*genai.Part] carrying blob data with its MIME type.
func NewPart(data []byte, mimeType string) *genai.Part {
	return &genai.Part{
		InlineData: &genai.Blob{
			Data:     data,
			MIMEType: mimeType,
		},
	}
}

// NewTextPart builds a [*genai.Part] carrying text with a text MIME type.
func NewTextPart(text, mimeType string) *genai.Part {
	return &genai.Part{
		Text: text,
		InlineData: &genai.Blob{
			Data:     []byte(text),
			MIMEType: mimeType,
		},
	}
}
