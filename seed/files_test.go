// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package seed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "fundamentals.json")
	in := &Fundamentals{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology", RevenueMUSD: 1, NetIncomeMUSD: 1, EPS: 1, PERatio: 1, DividendYield: 1}

	require.NoError(t, SaveJSON(path, in))

	var out Fundamentals
	require.NoError(t, LoadJSON(path, &out))
	assert.Equal(t, *in, out)
}

func TestLoadJSONMissingFile(t *testing.T) {
	t.Parallel()

	var out Fundamentals
	err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"), &out)
	assert.Error(t, err)
}
