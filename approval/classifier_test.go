// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package approval

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/model"
)

// scriptedModel replays canned responses in order.
type scriptedModel struct {
	responses []string
	err       error
	calls     int
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) GenerateContent(ctx context.Context, request *model.Request) (*model.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	i := m.calls
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	m.calls++
	return &model.Response{
		Content: genai.NewContentFromText(m.responses[i], genai.RoleModel),
	}, nil
}

func TestLLMClassifierVerdicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response string
		want     Classification
	}{
		{"approve", `{"intent": "approve"}`, ClassificationApprove},
		{"refine", `{"intent": "refine"}`, ClassificationRefine},
		{"unrelated", `{"intent": "unrelated"}`, ClassificationUnrelated},
		{"fenced output", "```json\n{\"intent\": \"approve\"}\n```", ClassificationApprove},
		{"unknown label defaults to refine", `{"intent": "shrug"}`, ClassificationRefine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewLLMClassifier(&scriptedModel{responses: []string{tt.response}})
			got, err := c.Classify(context.Background(), "looks good", "the plan")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLLMClassifierModelFailureDefaultsToRefine(t *testing.T) {
	t.Parallel()

	c := NewLLMClassifier(&scriptedModel{err: errors.New("backend down")})
	got, err := c.Classify(context.Background(), "go ahead", "the plan")
	if err != nil {
		t.Fatal(err)
	}
	if got != ClassificationRefine {
		t.Errorf("Classify on model failure = %v, want %v", got, ClassificationRefine)
	}
}

func TestLLMClassifierMalformedOutputDefaultsToRefine(t *testing.T) {
	t.Parallel()

	// Both the first response and the reprompt are unparseable.
	c := NewLLMClassifier(&scriptedModel{responses: []string{"sure thing!", "still not json"}})
	got, err := c.Classify(context.Background(), "go ahead", "the plan")
	if err != nil {
		t.Fatal(err)
	}
	if got != ClassificationRefine {
		t.Errorf("Classify on malformed output = %v, want %v", got, ClassificationRefine)
	}
}
