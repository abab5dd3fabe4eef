// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"
)

// GenerateJSON asks the model for output conforming to schema and
// unmarshals it into out.
//
// A response that fails to unmarshal is retried once with the parse error
// appended to the conversation, mirroring how the hosting framework forces
// a reprompt on schema-validation failure; a second mismatch surfaces as
// an error.
func GenerateJSON(ctx context.Context, m Model, request *Request, schema *genai.Schema, out any) error {
	if request.Config == nil {
		request.Config = &genai.GenerateContentConfig{}
	}
	request.Config.ResponseMIMEType = "application/json"
	request.Config.ResponseSchema = schema

	resp, err := m.GenerateContent(ctx, request)
	if err != nil {
		return err
	}
	if resp.ErrorCode != "" {
		return fmt.Errorf("model error %s: %s", resp.ErrorCode, resp.ErrorMessage)
	}

	text := stripCodeFence(resp.Text())
	if err := sonic.Unmarshal([]byte(text), out); err == nil {
		return nil
	}

	// Reprompt once with the parse failure.
	retry := &Request{
		Instruction: request.Instruction,
		Config:      request.Config,
		Contents: append(append([]*genai.Content{}, request.Contents...),
			resp.Content,
			genai.NewContentFromText(
				"The previous response was not valid JSON for the declared schema. Respond again with only the JSON object.",
				genai.RoleUser,
			),
		),
	}

	resp, err = m.GenerateContent(ctx, retry)
	if err != nil {
		return err
	}

	text = stripCodeFence(resp.Text())
	if err := sonic.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("model output does not match declared schema: %w", err)
	}
	return nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit even in JSON mode.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
