// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import (
	"encoding"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreativeBriefBounds(t *testing.T) {
	t.Parallel()

	b, err := NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", 88)
	require.NoError(t, err)
	assert.Equal(t, 88.0, b.FitScore)

	_, err = NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", 150)
	assert.Error(t, err, "fit score above 100 must be rejected")

	_, err = NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", -10)
	assert.Error(t, err, "negative fit score must be rejected")

	_, err = NewCreativeBrief("", "Tagline", "Concept", "Poster", "Jingle", 50)
	assert.Error(t, err, "headline is required")
}

func TestCampaignReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	brief, err := NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", 88)
	require.NoError(t, err)

	report, err := NewReport(
		ParsedRequest{Product: "sparkling water", Tone: "playful"},
		brief,
		[]string{"campaign.html", "poster.png"},
		[]string{"jingle_audio"},
	)
	require.NoError(t, err)

	data, err := report.Encode()
	require.NoError(t, err)

	decoded, err := ParseReport(data)
	require.NoError(t, err)
	assert.Equal(t, report, decoded)
}

func TestCampaignReportMarshalsAsObject(t *testing.T) {
	t.Parallel()

	// Report must not carry a text-marshaler method: sonic would serialize it
	// as a quoted string instead of an object, and session state round-trips
	// the stored report through sonic in GetJSON.
	_, isTextMarshaler := any(&Report{}).(encoding.TextMarshaler)
	require.False(t, isTextMarshaler)

	brief, err := NewCreativeBrief("Headline", "Tagline", "Concept", "Poster", "Jingle", 88)
	require.NoError(t, err)
	report, err := NewReport(ParsedRequest{Product: "sparkling water"}, brief, []string{"campaign.html"}, nil)
	require.NoError(t, err)

	data, err := sonic.Marshal(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "report must serialize as a JSON object, got %q", data)
	assert.Contains(t, string(data), `"headline":"Headline"`)
}
