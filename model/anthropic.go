// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"fmt"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/cenkalti/backoff/v4"
	"google.golang.org/genai"
)

const (
	// ClaudeDefaultModel is the default model name for [Claude].
	ClaudeDefaultModel = anthropic.ModelClaude3_5SonnetLatest

	// EnvAnthropicAPIKey is the environment variable name for the Anthropic API key.
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// Claude represents a Claude Large Language Model.
type Claude struct {
	model           string
	anthropicClient anthropic.Client
	maxRetries      uint64
}

var _ Model = (*Claude)(nil)

// NewClaude creates a new Claude LLM instance.
func NewClaude(ctx context.Context, apiKey, modelName string) (*Claude, error) {
	if apiKey == "" {
		envAPIKey := os.Getenv(EnvAnthropicAPIKey)
		if envAPIKey == "" {
			return nil, fmt.Errorf("either apiKey arg or %q environment variable must be set", EnvAnthropicAPIKey)
		}
		apiKey = envAPIKey
	}

	if modelName == "" {
		modelName = string(ClaudeDefaultModel)
	}

	return &Claude{
		model:           modelName,
		anthropicClient: anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxRetries:      3,
	}, nil
}

// Name implements [Model].
func (m *Claude) Name() string {
	return m.model
}

// contentToMessageParam converts genai content to an Anthropic message param.
func contentToMessageParam(content *genai.Content) anthropic.MessageParam {
	text := ""
	for _, part := range content.Parts {
		if part != nil {
			text += part.Text
		}
	}

	if content.Role == RoleModel {
		return anthropic.NewAssistantMessage(anthropic.NewTextBlock(text))
	}
	return anthropic.NewUserMessage(anthropic.NewTextBlock(text))
}

// messageToContent converts an Anthropic message to genai content.
func messageToContent(message *anthropic.Message) *genai.Content {
	var parts []*genai.Part
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, genai.NewPartFromText(block.Text))
		}
	}

	return &genai.Content{
		Role:  RoleModel,
		Parts: parts,
	}
}

// GenerateContent implements [Model].
func (m *Claude) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	messages := make([]anthropic.MessageParam, 0, len(request.Contents))
	for _, content := range request.Contents {
		messages = append(messages, contentToMessageParam(content))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		Messages:  messages,
		MaxTokens: 4096,
	}

	if config := request.Config; config != nil {
		if config.MaxOutputTokens > 0 {
			params.MaxTokens = int64(config.MaxOutputTokens)
		}
		if config.Temperature != nil {
			params.Temperature = anthropic.Float(float64(*config.Temperature))
		}
		if config.TopP != nil {
			params.TopP = anthropic.Float(float64(*config.TopP))
		}
	}

	if request.Instruction != "" {
		params.System = []anthropic.TextBlockParam{{
			Text: request.Instruction,
			Type: constant.ValueOf[constant.Text]().Default(),
		}}
	}

	var message *anthropic.Message
	operation := func() error {
		var err error
		message, err = m.anthropicClient.Messages.New(ctx, params)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), m.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("claude API error: %w", err)
	}

	return &Response{Content: messageToContent(message)}, nil
}
