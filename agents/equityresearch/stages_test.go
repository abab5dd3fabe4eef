// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package equityresearch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/seed"
	"github.com/go-a2a/adk-demos/session"
)

func newTestStore(t *testing.T) *seed.Store {
	t.Helper()

	store, err := seed.Open(filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.SeedDemoData(context.Background()))
	return store
}

func TestResearchStageGathersFundamentals(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sess := session.NewSession(AppName, "user", "sess", nil)
	sess.State().Set(KeyParsedRequest, &ParsedRequest{Ticker: "KO"})

	stage := newResearchStage(&scriptedModel{responses: []string{"unused"}}, store, nil)
	result, err := stage.Run(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, pipeline.StatusContinue, result.Status)

	var f seed.Fundamentals
	require.NoError(t, sess.State().GetJSON(KeyFundamentals, &f))
	assert.Equal(t, "The Coca-Cola Company", f.Name)

	// Without a search tool the news branch completes with an empty summary.
	assert.True(t, sess.Completed("news_search"))
	assert.Equal(t, "", sess.State().GetString(KeyNewsSummary))
}

func TestResearchStageHaltsOnUnknownTicker(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	sess := session.NewSession(AppName, "user", "sess", nil)
	sess.State().Set(KeyParsedRequest, &ParsedRequest{Ticker: "NOPE"})

	stage := newResearchStage(&scriptedModel{responses: []string{"unused"}}, store, nil)
	result, err := stage.Run(context.Background(), sess)
	require.NoError(t, err)

	// The fundamentals branch failure is isolated into the join report and
	// surfaces as a clean halt, not a crash.
	assert.Equal(t, pipeline.StatusHalt, result.Status)
	assert.Contains(t, result.Reason, "fundamentals unavailable")
	assert.True(t, sess.State().Has(pipeline.FailedKeyPrefix+"fundamentals"))
}
