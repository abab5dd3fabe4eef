// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the shared mutable state a pipeline run carries
// between stages: a key-value state bag with pending deltas, the set of
// completed stage names, and the halted flag set by a short-circuiting
// stage.
package session
