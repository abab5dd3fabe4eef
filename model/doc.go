// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package model abstracts the hosted large-language-model call behind a
// narrow interface: a templated instruction, conversation contents and an
// optional declared response schema in, free text or schema-conforming
// JSON out. Backends exist for Gemini (google.golang.org/genai) and Claude
// (anthropic-sdk-go); transient API failures are retried with exponential
// backoff at the call site.
package model
