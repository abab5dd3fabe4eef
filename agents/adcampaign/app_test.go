// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/approval"
	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/session"
)

// scriptedModel replays canned responses in order.
type scriptedModel struct {
	responses []string
	calls     int
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) GenerateContent(ctx context.Context, request *model.Request) (*model.Response, error) {
	i := m.calls
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	m.calls++
	return &model.Response{
		Content: genai.NewContentFromText(m.responses[i], genai.RoleModel),
	}, nil
}

// staticClassifier returns a fixed classification.
type staticClassifier struct {
	verdict approval.Classification
}

func (c *staticClassifier) Classify(ctx context.Context, userMessage, plan string) (approval.Classification, error) {
	return c.verdict, nil
}

const (
	sodaParseResponse = `{"product": "sparkling water", "audience": "young professionals", "tone": "playful"}`
	sodaPlanResponse  = `{"steps": ["Research the market", "Write the creative brief", "Produce the campaign document"]}`
	sodaBriefResponse = `{"headline": "Fizz Without the Fuss", "tagline": "Sparkle smarter.", "concept": "A playful take on hydration.", "poster_idea": "A bottle bursting into confetti.", "jingle_lines": "Pop the cap, hear it clap", "fit_score": 88}`
	sodaDocResponse   = "```html\n<html><body><h1>Fizz Without the Fuss</h1></body></html>\n```"
)

func TestProcessTurnFullCampaignFlow(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{sodaParseResponse, sodaPlanResponse, sodaBriefResponse, sodaDocResponse}}
	artifacts := artifact.NewInMemoryService()

	app := NewApp(m, artifacts,
		WithClassifier(&staticClassifier{verdict: approval.ClassificationApprove}))
	sess := session.NewSession(AppName, "user", "sess", nil)
	ctx := context.Background()

	reply, err := app.ProcessTurn(ctx, sess, "ad campaign for my sparkling water brand")
	require.NoError(t, err)
	assert.Equal(t, approval.StatePending, app.Machine().State())
	assert.Contains(t, reply, "sparkling water")

	reply, err = app.ProcessTurn(ctx, sess, "approve")
	require.NoError(t, err)
	assert.Contains(t, reply, "Fizz Without the Fuss")
	assert.Contains(t, reply, "campaign.html")

	var report Report
	require.NoError(t, sess.State().GetJSON(KeyReport, &report))
	assert.Equal(t, []string{"campaign.html"}, report.Artifacts)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 88.0, report.Brief.FitScore)

	// The document landed in artifact storage as HTML.
	part, err := artifacts.LoadArtifact(ctx, AppName, "user", "sess", "campaign.html", -1)
	require.NoError(t, err)
	require.NotNil(t, part)
	assert.Contains(t, string(part.InlineData.Data), "<h1>Fizz Without the Fuss</h1>")
}

func TestProcessTurnOffTopicMessage(t *testing.T) {
	t.Parallel()

	m := &scriptedModel{responses: []string{`{"product": "", "audience": "", "tone": ""}`}}
	app := NewApp(m, artifact.NewInMemoryService())
	sess := session.NewSession(AppName, "user", "sess", nil)

	reply, err := app.ProcessTurn(context.Background(), sess, "how are you")
	require.NoError(t, err)
	assert.Equal(t, approval.StateNone, app.Machine().State())
	assert.Contains(t, reply, "advertise")
}
