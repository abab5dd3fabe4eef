// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command adk-demos runs the demo conversational agents from a terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
