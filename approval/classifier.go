// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package approval

import (
	"context"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pkg/logging"
)

// Classifier sorts the user's reply to a pending plan into one of the
// three transition classes.
type Classifier interface {
	Classify(ctx context.Context, userMessage, plan string) (Classification, error)
}

// classifyInstruction is the system instruction for the intent classifier.
var classifyInstruction = heredoc.Doc(`
	You classify a user's reply to a proposed analysis plan.

	Given the plan that was just presented and the user's next message,
	decide which of the following the message is:
	  - "approve": the user accepts the plan as-is and wants the analysis to proceed.
	  - "refine": the user asks for changes, additions or removals to the plan.
	  - "unrelated": the user started a different request that has nothing to do with the plan.

	If you are not sure, answer "refine".
	Respond with a JSON object of the form {"intent": "..."}.
`)

// classifySchema declares the classifier output shape.
var classifySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"intent": {
			Type: genai.TypeString,
			Enum: []string{"approve", "refine", "unrelated"},
		},
	},
	Required: []string{"intent"},
}

// LLMClassifier classifies intent with a model call.
//
// Any failure of the call or of output validation defaults to
// [ClassificationRefine]: re-presenting the plan is recoverable on the
// user's next turn, a silent auto-approval is not.
type LLMClassifier struct {
	model model.Model
}

var _ Classifier = (*LLMClassifier)(nil)

// NewLLMClassifier creates a classifier backed by m.
func NewLLMClassifier(m model.Model) *LLMClassifier {
	return &LLMClassifier{model: m}
}

// Classify implements [Classifier].
func (c *LLMClassifier) Classify(ctx context.Context, userMessage, plan string) (Classification, error) {
	logger := logging.FromContext(ctx)

	request := model.NewTextRequest(classifyInstruction,
		"Plan presented to the user:\n"+plan+"\n\nUser's message:\n"+userMessage)

	var verdict struct {
		Intent string `json:"intent"`
	}
	if err := model.GenerateJSON(ctx, c.model, request, classifySchema, &verdict); err != nil {
		logger.WarnContext(ctx, "intent classification failed, defaulting to refine",
			slog.Any("error", err),
		)
		return ClassificationRefine, nil
	}

	classification, ok := ParseClassification(verdict.Intent)
	if !ok {
		logger.WarnContext(ctx, "unknown intent label, defaulting to refine",
			slog.String("intent", verdict.Intent),
		)
		return ClassificationRefine, nil
	}
	return classification, nil
}
