// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import "github.com/MakeNowJust/heredoc/v2"

var parseInstruction = heredoc.Doc(`
	You extract structured fields from an advertising campaign brief.

	Read the user's message and return JSON with:
	  - product: what is being advertised
	  - audience: who the campaign targets, or ""
	  - tone: the requested tone (playful, premium, ...), or ""

	If the message is not about creating an ad campaign, return an empty
	string for product.
`)

var planInstruction = heredoc.Doc(`
	You are a creative director. Produce a short production plan for the
	brief below as JSON with a "steps" array of 3 to 5 strings. Each step
	names one concrete action (market research, creative brief, poster,
	jingle, campaign document).

	If the user gave feedback on a previous plan, revise the plan to
	address it rather than starting over.
`)

var briefInstruction = heredoc.Doc(`
	You are a creative director writing the creative brief for the
	campaign below. Use the market research notes when they are present.
	Return JSON with:
	  - headline: the main campaign headline
	  - tagline: a short memorable tagline
	  - concept: 2 or 3 sentences describing the creative concept
	  - poster_idea: one sentence describing the key visual for a poster
	  - jingle_lines: 2 to 4 short lines of jingle lyrics
	  - fit_score: 0-100, how well the concept fits the brief
`)

var documentInstruction = heredoc.Doc(`
	Write a self-contained HTML page presenting the ad campaign below:
	headline, tagline, concept, and a section each for the poster and the
	jingle. Use inline CSS only. Return the page in a single` + " ```html``` " + `code block.
`)
