// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package approval implements the human-in-the-loop plan approval
// protocol: a finite state machine over {none, pending, approved} with a
// turn-scoped gate that keeps a just-presented plan from being
// misinterpreted as the user's reply, and a classifier that sorts each
// user turn into approval, refinement or an unrelated new request.
package approval
