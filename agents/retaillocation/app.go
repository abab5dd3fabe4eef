// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package retaillocation

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/approval"
	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/seed"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// AppName identifies this agent in session and artifact scoping.
const AppName = "retail_location_scout"

// App is the retail location scout. Each user turn goes through
// ProcessTurn, which drives the plan approval machine and, once a plan is
// approved, the research pipeline.
type App struct {
	model      model.Model
	classifier approval.Classifier
	machine    *approval.Machine
	store      *seed.Store
	places     *tool.PlacesTool
	executor   *tool.CodeExecutionTool
	artifacts  artifact.Service

	execution *pipeline.Sequential
}

// Option configures an App.
type Option func(*App)

// WithPlaces enables live competitor lookups through the Places API.
func WithPlaces(p *tool.PlacesTool) Option {
	return func(a *App) { a.places = p }
}

// WithClassifier overrides the default LLM intent classifier.
func WithClassifier(c approval.Classifier) Option {
	return func(a *App) { a.classifier = c }
}

// NewApp builds the agent. The store and executor are required; places is
// optional.
func NewApp(m model.Model, store *seed.Store, executor *tool.CodeExecutionTool, artifacts artifact.Service, opts ...Option) *App {
	a := &App{
		model:      m,
		classifier: approval.NewLLMClassifier(m),
		machine:    approval.NewMachine(),
		store:      store,
		executor:   executor,
		artifacts:  artifacts,
	}
	for _, opt := range opts {
		opt(a)
	}

	toolCtx := func(sess *session.Session) *tool.Context {
		return &tool.Context{Session: sess, Artifacts: a.artifacts}
	}
	a.execution = pipeline.NewSequential("location_research",
		&researchStage{store: a.store, places: a.places},
		&scoringStage{model: a.model, executor: a.executor, toolCtx: toolCtx},
		&synthesisStage{model: a.model, toolCtx: toolCtx},
	)
	return a
}

// Machine exposes the approval state machine, mainly for tests and the CLI
// status line.
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
			// Unrelated message; fall through and treat it as a new request.
		}
	}

	return a.proposePlan(ctx, sess, userMessage)
}

// proposePlan parses a fresh request and presents a plan for approval.
func (a *App) proposePlan(ctx context.Context, sess *session.Session, userMessage string) (string, error) {
	parsed, err := ParseRequest(ctx, a.model, userMessage)
	if err != nil {
		return "", err
	}
	if parsed.TargetLocation == "" || parsed.BusinessType == "" {
		reply := "I scout retail locations. Tell me what business you want to open and where."
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

// refinePlan regenerates the plan using the user's feedback and presents
// the revision. The machine stays pending.
func (a *App) refinePlan(ctx context.Context, sess *session.Session, feedback string) (string, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return "", fmt.Errorf("no request on file to refine: %w", err)
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
		return nil, fmt.Errorf("encode request: %w", err)
	}
	prompt := fmt.Sprintf("Request: %s", reqJSON)
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

// execute runs the research pipeline for the approved plan, then resets
// the approval machine so the next message starts a fresh request.
func (a *App) execute(ctx context.Context, sess *session.Session) (string, error) {
	defer a.machine.Reset()
	sess.ClearHalted()

	result, err := a.execution.Run(ctx, sess)
	if err != nil {
		return "", fmt.Errorf("research pipeline: %w", err)
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
	reply := fmt.Sprintf("Recommended district: %s\n\n%s", report.Recommended, report.Narrative)
	sess.AddEvent(AppName, reply)
	return reply, nil
}
