// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"fmt"
	"os"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

const (
	// GeminiDefaultModel is the default model name for [Gemini].
	GeminiDefaultModel = "gemini-2.0-flash"

	// EnvGoogleAPIKey is the environment variable name for the Google AI API key.
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
)

// Gemini represents a Google Gemini Large Language Model.
type Gemini struct {
	model       string
	genAIClient *genai.Client
	maxRetries  uint64
}

var _ Model = (*Gemini)(nil)

// NewGemini creates a new [Gemini] instance.
func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = GeminiDefaultModel
	}

	if apiKey == "" {
		envAPIKey := os.Getenv(EnvGoogleAPIKey)
		if envAPIKey == "" {
			return nil, fmt.Errorf("either apiKey arg or %q environment variable must be set", EnvGoogleAPIKey)
		}
		apiKey = envAPIKey
	}

	genAIClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Gemini{
		model:       modelName,
		genAIClient: genAIClient,
		maxRetries:  3,
	}, nil
}

// Client returns the underlying genai client, shared with the media
// generation tools.
func (m *Gemini) Client() *genai.Client {
	return m.genAIClient
}

// Name implements [Model].
func (m *Gemini) Name() string {
	return m.model
}

// appendUserContent checks if the last message is from the user and if not,
// appends an instruction-following user message.
func (m *Gemini) appendUserContent(contents []*genai.Content) []*genai.Content {
	switch {
	case len(contents) == 0:
		return append(contents, genai.NewContentFromText(
			`Handle the requests as specified in the System Instruction.`, genai.RoleUser))

	case contents[len(contents)-1].Role != genai.RoleUser:
		return append(contents, genai.NewContentFromText(
			`Continue processing previous requests as instructed.`, genai.RoleUser))

	default:
		return contents
	}
}

// GenerateContent implements [Model].
//
// Transient API failures are retried with exponential backoff up to
// maxRetries times before surfacing as a stage failure.
func (m *Gemini) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	contents := m.appendUserContent(request.Contents)

	config := request.Config
	if config == nil {
		config = &genai.GenerateContentConfig{}
	}
	if request.Instruction != "" && config.SystemInstruction == nil {
		config.SystemInstruction = genai.NewContentFromText(request.Instruction, genai.Role(RoleSystem))
	}

	var resp *genai.GenerateContentResponse
	operation := func() error {
		var err error
		resp, err = m.genAIClient.Models.GenerateContent(ctx, m.model, contents, config)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}

	return CreateResponse(resp), nil
}
