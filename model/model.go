// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"

	"google.golang.org/genai"
)

// Role represents the role of a participant in a conversation.
type Role = string

const (
	// RoleSystem is the role of the system.
	RoleSystem Role = "system"

	// RoleUser is the role of the user.
	RoleUser Role = genai.RoleUser

	// RoleModel is the role of the model.
	RoleModel Role = genai.RoleModel
)

// Request is a request to a language model.
type Request struct {
	// Instruction is the system instruction for the call.
	Instruction string

	// Contents is the conversation contents, last message from the user.
	Contents []*genai.Content

	// Config is the generation config. ResponseSchema and
	// ResponseMIMEType constrain the output to a declared JSON shape.
	Config *genai.GenerateContentConfig
}

// NewTextRequest builds a single-turn request from an instruction and a user message.
func NewTextRequest(instruction, userText string) *Request {
	return &Request{
		Instruction: instruction,
		Contents: []*genai.Content{
			genai.NewContentFromText(userText, genai.RoleUser),
		},
	}
}

// Response is a response from a language model.
type Response struct {
	// Content is the content of the response.
	Content *genai.Content

	// ErrorCode is the error code if the response is an error. Code varies by model.
	ErrorCode string

	// ErrorMessage is the error message if the response is an error.
	ErrorMessage string
}

// Text returns the concatenated text parts of the response.
func (r *Response) Text() string {
	if r == nil || r.Content == nil {
		return ""
	}

	text := ""
	for _, part := range r.Content.Parts {
		if part != nil {
			text += part.Text
		}
	}
	return text
}

// CreateResponse converts a [*genai.GenerateContentResponse] into a [Response].
func CreateResponse(resp *genai.GenerateContentResponse) *Response {
	response := &Response{}

	if resp == nil {
		response.ErrorCode = "UNKNOWN_ERROR"
		response.ErrorMessage = "Generate content response is nil."
		return response
	}

	switch {
	case len(resp.Candidates) > 0:
		candidate := resp.Candidates[0]
		if candidate.Content != nil && len(candidate.Content.Parts) > 0 {
			response.Content = candidate.Content
		} else {
			response.ErrorCode = string(candidate.FinishReason)
			response.ErrorMessage = candidate.FinishMessage
		}

	case resp.PromptFeedback != nil:
		response.ErrorCode = string(resp.PromptFeedback.BlockReason)
		response.ErrorMessage = resp.PromptFeedback.BlockReasonMessage

	default:
		response.ErrorCode = "UNKNOWN_ERROR"
		response.ErrorMessage = "Unknown error in generate content response."
	}

	return response
}

// Model represents a generative AI model.
type Model interface {
	// Name returns the name of the model.
	Name() string

	// GenerateContent generates content from the model.
	GenerateContent(ctx context.Context, request *Request) (*Response, error)
}
