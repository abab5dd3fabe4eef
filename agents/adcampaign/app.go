// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/approval"
	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// AppName identifies this agent in session and artifact scoping.
const AppName = "ad_campaign"

// App is the ad campaign agent.
type App struct {
	model      model.Model
	classifier approval.Classifier
	machine    *approval.Machine
	search     *tool.WebSearchTool
	imagegen   *tool.ImageGenTool
	speechgen  *tool.SpeechGenTool
	artifacts  artifact.Service

	execution *pipeline.Sequential
}

// Option configures an App.
type Option func(*App)

// WithSearch enables market research through the custom search API.
func WithSearch(s *tool.WebSearchTool) Option {
	return func(a *App) { a.search = s }
}

// WithImageGen enables the poster branch.
func WithImageGen(t *tool.ImageGenTool) Option {
	return func(a *App) { a.imagegen = t }
}

// WithSpeechGen enables the jingle branch.
func WithSpeechGen(t *tool.SpeechGenTool) Option {
	return func(a *App) { a.speechgen = t }
}

// WithClassifier overrides the default LLM intent classifier.
func WithClassifier(c approval.Classifier) Option {
	return func(a *App) { a.classifier = c }
}

// NewApp builds the agent. Only the model and artifact service are
// required; media tools are optional and their branches are skipped when
// absent.
func NewApp(m model.Model, artifacts artifact.Service, opts ...Option) *App {
	a := &App{
		model:      m,
		classifier: approval.NewLLMClassifier(m),
		machine:    approval.NewMachine(),
		artifacts:  artifacts,
	}
	for _, opt := range opts {
		opt(a)
	}

	toolCtx := func(sess *session.Session) *tool.Context {
		return &tool.Context{Session: sess, Artifacts: a.artifacts}
	}
	a.execution = pipeline.NewSequential("campaign_production",
		&researchStage{model: a.model, search: a.search},
		&briefStage{model: a.model},
		newProductionStage(a.model, a.imagegen, a.speechgen, toolCtx),
	)
	return a
}

// Machine exposes the approval state machine for tests and the CLI.
func (a *App) Machine() *approval.Machine { return a.machine }

// ProcessTurn handles one user message and returns the agent's reply.
func (a *App) ProcessTurn(ctx context.Context, sess *session.Session, userMessage string) (string, error) {
	logger := logging.FromContext(ctx)
	a.machine.BeginTurn()
	sess.AddEvent("user", userMessage)
	sess.State().Set(KeyUserMessage, userMessage)

	if a.machine.State() == approval.StatePending {
		c, err := a.classifier.Classify(ctx, userMessage, a.machine.Plan())
		if err != nil {
			return "", fmt.Errorf("classify approval intent: %w", err)
		}
		next, err := a.machine.Transition(c)
		if err != nil {
			return "", err
		}
		logger.InfoContext(ctx, "approval transition",
			"classification", c.String(), "state", next.String())

		switch next {
		case approval.StateApproved:
			return a.execute(ctx, sess)
		case approval.StatePending:
			return a.refinePlan(ctx, sess, userMessage)
		case approval.StateNone:
			// Unrelated message; treat it as a new brief below.
		}
	}

	return a.proposePlan(ctx, sess, userMessage)
}

func (a *App) proposePlan(ctx context.Context, sess *session.Session, userMessage string) (string, error) {
	parsed, err := ParseRequest(ctx, a.model, userMessage)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Product) == "" {
		reply := "I build ad campaigns. Tell me what product you want to advertise."
		sess.AddEvent(AppName, reply)
		return reply, nil
	}
	sess.State().Set(KeyParsedRequest, parsed)

	plan, err := a.generatePlan(ctx, parsed, "")
	if err != nil {
		return "", err
	}
	if err := a.machine.Present(plan.Text()); err != nil {
		return "", err
	}
	reply := plan.Text()
	sess.AddEvent(AppName, reply)
	return reply, nil
}

func (a *App) refinePlan(ctx context.Context, sess *session.Session, feedback string) (string, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return "", fmt.Errorf("no brief on file to refine: %w", err)
	}
	plan, err := a.generatePlan(ctx, &parsed, feedback)
	if err != nil {
		return "", err
	}
	if err := a.machine.Present(plan.Text()); err != nil {
		return "", err
	}
	reply := plan.Text()
	sess.AddEvent(AppName, reply)
	return reply, nil
}

var planSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"steps": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"steps"},
}

func (a *App) generatePlan(ctx context.Context, parsed *ParsedRequest, feedback string) (*Plan, error) {
	reqJSON, err := sonic.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("encode brief: %w", err)
	}
	prompt := fmt.Sprintf("Brief: %s", reqJSON)
	if feedback != "" {
		prompt += fmt.Sprintf("\nUser feedback on the previous plan: %s", feedback)
	}

	var out struct {
		Steps []string `json:"steps"`
	}
	if err := model.GenerateJSON(ctx, a.model, model.NewTextRequest(planInstruction, prompt), planSchema, &out); err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if len(out.Steps) == 0 {
		return nil, fmt.Errorf("model produced an empty plan")
	}
	return &Plan{Request: *parsed, Steps: out.Steps}, nil
}

func (a *App) execute(ctx context.Context, sess *session.Session) (string, error) {
	defer a.machine.Reset()
	sess.ClearHalted()

	result, err := a.execution.Run(ctx, sess)
	if err != nil {
		return "", fmt.Errorf("campaign pipeline: %w", err)
	}
	if result.Status == pipeline.StatusHalt {
		reply := fmt.Sprintf("I had to stop: %s", result.Reason)
		sess.AddEvent(AppName, reply)
		return reply, nil
	}

	var report Report
	if err := sess.State().GetJSON(KeyReport, &report); err != nil {
		return "", fmt.Errorf("pipeline finished without a report: %w", err)
	}

	reply := fmt.Sprintf("Campaign ready: %q / %q\nArtifacts: %s",
		report.Brief.Headline, report.Brief.Tagline, strings.Join(report.Artifacts, ", "))
	if len(report.Failed) > 0 {
		reply += fmt.Sprintf("\nSkipped (failed): %s", strings.Join(report.Failed, ", "))
	}
	sess.AddEvent(AppName, reply)
	return reply, nil
}
