// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type scriptedModel struct {
	responses []string
	requests  []*Request
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) GenerateContent(ctx context.Context, request *Request) (*Response, error) {
	m.requests = append(m.requests, request)
	i := len(m.requests) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return &Response{
		Content: genai.NewContentFromText(m.responses[i], genai.RoleModel),
	}, nil
}

var testSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"city": {Type: genai.TypeString},
	},
	Required: []string{"city"},
}

func TestGenerateJSON(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{`{"city": "Mumbai"}`}}

	var out struct {
		City string `json:"city"`
	}
	if err := GenerateJSON(context.Background(), m, NewTextRequest("extract", "a bakery in Mumbai"), testSchema, &out); err != nil {
		t.Fatal(err)
	}
	if out.City != "Mumbai" {
		t.Errorf("city = %q, want %q", out.City, "Mumbai")
	}

	// The request must declare the JSON constraint to the model.
	cfg := m.requests[0].Config
	if cfg.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q, want application/json", cfg.ResponseMIMEType)
	}
	if cfg.ResponseSchema != testSchema {
		t.Error("ResponseSchema not set on the request")
	}
}

func TestGenerateJSONStripsCodeFence(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{"```json\n{\"city\": \"Mumbai\"}\n```"}}

	var out struct {
		City string `json:"city"`
	}
	if err := GenerateJSON(context.Background(), m, NewTextRequest("extract", "msg"), testSchema, &out); err != nil {
		t.Fatal(err)
	}
	if out.City != "Mumbai" {
		t.Errorf("city = %q, want %q", out.City, "Mumbai")
	}
}

func TestGenerateJSONRepromptsOnceOnParseFailure(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{"Sure! Here is the JSON you asked for.", `{"city": "Mumbai"}`}}

	var out struct {
		City string `json:"city"`
	}
	if err := GenerateJSON(context.Background(), m, NewTextRequest("extract", "msg"), testSchema, &out); err != nil {
		t.Fatal(err)
	}
	if out.City != "Mumbai" {
		t.Errorf("city = %q, want %q", out.City, "Mumbai")
	}
	if len(m.requests) != 2 {
		t.Fatalf("model called %d times, want 2", len(m.requests))
	}

	// The reprompt carries the failed response back to the model.
	retry := m.requests[1]
	if len(retry.Contents) != 3 {
		t.Fatalf("retry has %d contents, want 3 (original, response, reprompt)", len(retry.Contents))
	}
}

func TestGenerateJSONFailsAfterSecondMismatch(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{"not json", "still not json"}}

	var out struct {
		City string `json:"city"`
	}
	err := GenerateJSON(context.Background(), m, NewTextRequest("extract", "msg"), testSchema, &out)
	if err == nil || !strings.Contains(err.Error(), "does not match declared schema") {
		t.Fatalf("GenerateJSON error = %v, want schema mismatch error", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
