// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package equityresearch

import (
	"encoding"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsBounds(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics(25.3, 3.4, 29.4, 0.53, 90)
	require.NoError(t, err)
	assert.Equal(t, 90.0, m.Confidence)

	_, err = NewMetrics(25.3, 3.4, 29.4, 0.53, 150)
	assert.Error(t, err, "confidence above 100 must be rejected")

	_, err = NewMetrics(25.3, 3.4, 29.4, 0.53, -10)
	assert.Error(t, err, "negative confidence must be rejected")
}

func TestNewReportBounds(t *testing.T) {
	t.Parallel()

	metrics, err := NewMetrics(25.3, 3.4, 29.4, 0.53, 90)
	require.NoError(t, err)
	request := ParsedRequest{Ticker: "KO"}

	_, err = NewReport(request, "The Coca-Cola Company", 72, metrics, "", "solid defensive pick")
	require.NoError(t, err)

	_, err = NewReport(request, "The Coca-Cola Company", 150, metrics, "", "n")
	assert.Error(t, err, "score above 100 must be rejected")

	_, err = NewReport(request, "The Coca-Cola Company", -10, metrics, "", "n")
	assert.Error(t, err, "negative score must be rejected")

	_, err = NewReport(request, "The Coca-Cola Company", 72, nil, "", "n")
	assert.Error(t, err, "metrics are required")
}

func TestReportJSONRoundTrip(t *testing.T) {
	t.Parallel()

	metrics, err := NewMetrics(25.3, 3.4, 29.4, 0.53, 90)
	require.NoError(t, err)

	report, err := NewReport(ParsedRequest{Ticker: "KO"}, "The Coca-Cola Company", 72, metrics, "raised guidance", "solid defensive pick\nScore: 72")
	require.NoError(t, err)

	data, err := report.Encode()
	require.NoError(t, err)

	decoded, err := ParseReport(data)
	require.NoError(t, err)
	assert.Equal(t, report, decoded)
}

func TestReportMarshalsAsObject(t *testing.T) {
	t.Parallel()

	// Report must not carry a text-marshaler method: sonic would serialize it
	// as a quoted string instead of an object, and session state round-trips
	// the stored report through sonic in GetJSON.
	_, isTextMarshaler := any(&Report{}).(encoding.TextMarshaler)
	require.False(t, isTextMarshaler)

	metrics, err := NewMetrics(25.3, 3.4, 29.4, 0.53, 90)
	require.NoError(t, err)
	report, err := NewReport(ParsedRequest{Ticker: "KO"}, "The Coca-Cola Company", 72, metrics, "", "n")
	require.NoError(t, err)

	data, err := sonic.Marshal(report)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"), "report must serialize as a JSON object, got %q", data)
	assert.Contains(t, string(data), `"company_name":"The Coca-Cola Company"`)
}

func TestExtractScore(t *testing.T) {
	t.Parallel()

	score, err := extractScore("Valuation looks fair.\nOutlook is stable.\nScore: 72")
	require.NoError(t, err)
	assert.Equal(t, 72.0, score)

	_, err = extractScore("no score line at all")
	assert.Error(t, err)
}

func TestParseMetricsValidates(t *testing.T) {
	t.Parallel()

	good := `{"profit_margin_pct": 25.3, "earnings_yield_pct": 3.4, "pe_ratio": 29.4, "dividend_yield_pct": 0.53, "confidence": 90}`
	m, err := parseMetrics("working...\n" + good)
	require.NoError(t, err)
	assert.Equal(t, 29.4, m.PERatio)

	bad := `{"profit_margin_pct": 25.3, "earnings_yield_pct": 3.4, "pe_ratio": 29.4, "dividend_yield_pct": 0.53, "confidence": 150}`
	_, err = parseMetrics(bad)
	assert.Error(t, err, "out-of-range confidence must be rejected at the sandbox boundary")

	_, err = parseMetrics("not json")
	assert.Error(t, err)
}
