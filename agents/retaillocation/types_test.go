// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package retaillocation

import (
	"encoding"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDistrictScoreBounds(t *testing.T) {
	t.Parallel()

	ds, err := NewDistrictScore("Bandra West", 87.5, 88, 20, 95, "strong foot traffic")
	require.NoError(t, err)
	assert.Equal(t, 87.5, ds.OverallScore)

	_, err = NewDistrictScore("Bandra West", 150, 88, 20, 95, "")
	assert.Error(t, err, "overall score above 100 must be rejected")

	_, err = NewDistrictScore("Bandra West", 50, 88, -10, 95, "")
	assert.Error(t, err, "negative sub-score must be rejected")

	_, err = NewDistrictScore("", 50, 50, 50, 50, "")
	assert.Error(t, err, "district name is required")
}

func TestReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	score, err := NewDistrictScore("Dadar", 72, 83, 42, 80, "")
	require.NoError(t, err)

	report, err := NewReport(
		ParsedRequest{TargetLocation: "Mumbai", BusinessType: "bakery"},
		"Dadar",
		[]*DistrictScore{score},
		"Dadar combines high foot traffic with moderate rents.",
	)
	require.NoError(t, err)

	data, err := report.Encode()
	require.NoError(t, err)

	decoded, err := ParseReport(data)
	require.NoError(t, err)
	assert.Equal(t, report, decoded)
}

func TestReportMarshalsAsObject(t *testing.T) {
	t.Parallel()

	// A text-marshaler method on Report would make sonic serialize it as a
	// quoted string (and recurse if that method itself called sonic), so the
	// report must marshal field by field through the default path. Session
	// state stores reports this way via GetJSON.
	_, isTextMarshaler := any(&Report{}).(encoding.TextMarshaler)
	require.False(t, isTextMarshaler)

	score, err := NewDistrictScore("Dadar", 72, 83, 42, 80, "")
	require.NoError(t, err)
	report, err := NewReport(
		ParsedRequest{TargetLocation: "Mumbai", BusinessType: "bakery"},
		"Dadar", []*DistrictScore{score}, "n",
	)
	require.NoError(t, err)

	data, err := sonic.Marshal(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "report must serialize as a JSON object, got %q", data)
	assert.Contains(t, string(data), `"recommended":"Dadar"`)
}

func TestParseReportRejectsInvalidScores(t *testing.T) {
	t.Parallel()

	// Crafted payloads with out-of-range scores must not round-trip into a
	// valid report.
	bad := `{
		"request": {"target_location": "Mumbai", "business_type": "bakery"},
		"recommended": "Dadar",
		"scores": [{"district": "Dadar", "overall_score": 150, "foot_traffic": 83, "affordability": 42, "demand": 80}],
		"narrative": "n"
	}`
	_, err := ParseReport([]byte(bad))
	assert.Error(t, err)
}

func TestParseScoresValidates(t *testing.T) {
	t.Parallel()

	good := `[{"district": "Dadar", "overall_score": 72, "foot_traffic": 83, "affordability": 42, "demand": 80}]`
	scores, err := parseScores("computing...\n" + good)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "Dadar", scores[0].District)

	_, err = parseScores(`[{"district": "Dadar", "overall_score": -10, "foot_traffic": 83, "affordability": 42, "demand": 80}]`)
	assert.Error(t, err, "scores outside [0, 100] must be rejected at the sandbox boundary")

	_, err = parseScores("[]")
	assert.Error(t, err)

	_, err = parseScores("not json")
	assert.Error(t, err)
}
