// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// stubBranch is a canned media branch for exercising the production
// fan-out without real generation tools.
type stubBranch struct {
	name   string
	err    error
	output map[string]any
}

func (b *stubBranch) Name() string { return b.name }

func (b *stubBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	return pipeline.Continue(b.output), nil
}

func newProductionSession(t *testing.T) *session.Session {
	t.Helper()
	brief, err := NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", 88)
	require.NoError(t, err)
	sess := session.NewSession(AppName, "user", "sess", nil)
	sess.State().Set(KeyParsedRequest, ParsedRequest{Product: "sparkling water"})
	sess.State().Set(KeyCreativeBrief, brief)
	return sess
}

func TestProductionStageSortsFailedBranches(t *testing.T) {
	t.Parallel()

	stage := &productionStage{
		fanout: pipeline.NewFanOut("produce_media",
			&stubBranch{name: "campaign_document", output: map[string]any{KeyDocumentArtifact: "campaign.html"}},
			&stubBranch{name: "poster_image", err: errors.New("image backend down")},
			&stubBranch{name: "jingle_audio", err: errors.New("tts backend down")},
		),
		toolCtx: func(*session.Session) *tool.Context { return &tool.Context{} },
	}

	sess := newProductionSession(t)
	res, err := stage.Run(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusContinue, res.Status)

	report, ok := res.Output[KeyReport].(*Report)
	require.True(t, ok)
	// Failed branches come out of a map; the persisted report must list
	// them in a stable order.
	assert.Equal(t, []string{"jingle_audio", "poster_image"}, report.Failed)
	assert.Equal(t, []string{"campaign.html"}, report.Artifacts)
}

func TestProductionStageHaltsWhenEveryBranchFails(t *testing.T) {
	t.Parallel()

	stage := &productionStage{
		fanout: pipeline.NewFanOut("produce_media",
			&stubBranch{name: "campaign_document", err: errors.New("model down")},
		),
		toolCtx: func(*session.Session) *tool.Context { return &tool.Context{} },
	}

	sess := newProductionSession(t)
	res, err := stage.Run(context.Background(), sess)
	require.NoError(t, err)
	assert.Equal(t, pipeline.StatusHalt, res.Status)
}
