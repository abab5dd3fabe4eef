// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline provides the orchestration primitives the demo agents
// are built from: stages with tagged Continue/Halt results, a sequential
// runner with short-circuit, a parallel fan-out/join with isolated branch
// failures, and a bounded refinement loop.
package pipeline
