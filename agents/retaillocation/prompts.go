// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package retaillocation

import "github.com/MakeNowJust/heredoc/v2"

var parseInstruction = heredoc.Doc(`
	You extract structured fields from a retail location scouting request.

	Read the user's message and return JSON with:
	  - target_location: the city or area the user wants to open in
	  - business_type: the kind of business (bakery, gym, bookstore, ...)
	  - context: any extra constraints the user mentioned, or ""

	Keep the user's own wording for target_location and business_type.
	If the message is not about scouting a location for a business, return
	empty strings for target_location and business_type.
`)

var planInstruction = heredoc.Doc(`
	You are a retail site-selection analyst. Produce a short research plan
	for the request below as JSON with a "steps" array of 3 to 5 strings.
	Each step names one concrete research action (gather demographics,
	survey competitors, score districts, write recommendation).

	If the user gave feedback on a previous plan, revise the plan to
	address it rather than starting over.
`)

var scoringScriptInstruction = heredoc.Doc(`
	Write a single self-contained Python 3 script that scores candidate
	districts for a retail location.

	The script receives its input inline: a DISTRICTS list of dicts is
	declared at the top (already filled in below). Each dict has keys
	district, population, income_tier, foot_traffic_index,
	commercial_rent_index, and competitor_count.

	Compute for every district three 0-100 sub-scores:
	  foot_traffic  = foot_traffic_index clamped to [0, 100]
	  affordability = 100 - commercial_rent_index clamped to [0, 100]
	  demand        = population-weighted score penalized by competitor_count

	and an overall_score as the weighted mean (0.4 foot_traffic,
	0.3 affordability, 0.3 demand), clamped to [0, 100].

	Print exactly one line to stdout: a JSON array of objects with keys
	district, overall_score, foot_traffic, affordability, demand. No other
	output. Return the script in a single` + " ```python``` " + `code block.
`)

var synthesisInstruction = heredoc.Doc(`
	You are a retail site-selection analyst writing a final recommendation.
	Using the scored districts and research notes provided, write a concise
	narrative (2 short paragraphs) recommending the top-scoring district
	and noting one risk. Do not invent numbers; cite only scores you were
	given.
`)
