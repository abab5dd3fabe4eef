// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

// ImageGenDefaultModel is the default image generation model.
const ImageGenDefaultModel = "imagen-3.0-generate-002"

// GeneratedMedia is binary media bytes plus a MIME type.
type GeneratedMedia struct {
	Data     []byte
	MIMEType string
}

// ImageGenTool generates a single image from a prompt.
type ImageGenTool struct {
	base

	client *genai.Client
	model  string
}

var _ Tool = (*ImageGenTool)(nil)

// NewImageGenTool creates an image generation tool on the shared genai client.
func NewImageGenTool(client *genai.Client, modelName string) *ImageGenTool {
	if modelName == "" {
		modelName = ImageGenDefaultModel
	}
	return &ImageGenTool{
		base:   newBase("image_generation", "Generates an image from a text prompt."),
		client: client,
		model:  modelName,
	}
}

// Generate produces image bytes for the prompt.
func (t *ImageGenTool) Generate(ctx context.Context, prompt string) (*GeneratedMedia, error) {
	var resp *genai.GenerateImagesResponse
	operation := func() error {
		var err error
		resp, err = t.client.Models.GenerateImages(ctx, t.model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
		})
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("image generation: %w", err)
	}

	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, fmt.Errorf("image generation returned no image")
	}

	img := resp.GeneratedImages[0].Image
	mimeType := img.MIMEType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return &GeneratedMedia{
		Data:     img.ImageBytes,
		MIMEType: mimeType,
	}, nil
}

// Run implements [Tool].
func (t *ImageGenTool) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	prompt, err := StringArg(args, "prompt")
	if err != nil {
		return nil, err
	}
	return t.Generate(ctx, prompt)
}
