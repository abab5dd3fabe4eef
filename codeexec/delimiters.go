// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package codeexec

import (
	"regexp"
)

// CodeBlock is a fenced code block extracted from model output.
type CodeBlock struct {
	Language string
	Code     string
}

// codeBlockRe matches markdown code blocks: ```language\ncode\n```.
var codeBlockRe = regexp.MustCompile("```([a-zA-Z0-9_+-]*)\n([\\s\\S]*?)\n```")

// ExtractCodeBlocks extracts all fenced code blocks from the given text.
func ExtractCodeBlocks(text string) []*CodeBlock {
	matches := codeBlockRe.FindAllStringSubmatch(text, -1)

	var blocks []*CodeBlock
	for _, match := range matches {
		blocks = append(blocks, &CodeBlock{
			Language: match[1],
			Code:     match[2],
		})
	}
	return blocks
}

// FirstCodeBlock returns the first code block matching language, falling
// back to the first block of any language. Reports false when the text
// contains no code block at all.
func FirstCodeBlock(text, language string) (*CodeBlock, bool) {
	blocks := ExtractCodeBlocks(text)
	if len(blocks) == 0 {
		return nil, false
	}

	for _, block := range blocks {
		if block.Language == language {
			return block, true
		}
	}
	return blocks[0], true
}
