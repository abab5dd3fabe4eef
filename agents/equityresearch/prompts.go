// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package equityresearch

import "github.com/MakeNowJust/heredoc/v2"

var parseInstruction = heredoc.Doc(`
	You extract structured fields from an equity research request.

	Read the user's message and return JSON with:
	  - ticker: the stock ticker symbol in upper case (resolve well-known
	    company names to their primary US listing)
	  - focus: any specific angle the user asked about, or ""

	If the message is not about researching a stock, return an empty
	string for ticker.
`)

var planInstruction = heredoc.Doc(`
	You are an equity research analyst. Produce a short research plan for
	the request below as JSON with a "steps" array of 3 to 5 strings. Each
	step names one concrete action (pull fundamentals, scan recent news,
	compute valuation metrics, write the note).

	If the user gave feedback on a previous plan, revise the plan to
	address it rather than starting over.
`)

var newsSummaryInstruction = heredoc.Doc(`
	Summarize the search results below into 2 or 3 sentences of recent
	news relevant to an investor. Mention only what the results support.
`)

var metricsScriptInstruction = heredoc.Doc(`
	Write a single self-contained Python 3 script that computes valuation
	metrics. A FUNDAMENTALS dict is declared at the top (already filled in
	below) with keys revenue_musd, net_income_musd, eps, pe_ratio and
	dividend_yield.

	Compute:
	  profit_margin_pct  = 100 * net_income_musd / revenue_musd
	  earnings_yield_pct = 100 / pe_ratio
	  dividend_yield_pct = dividend_yield
	  confidence         = 90 if every input is positive else 50

	Print exactly one line to stdout: a JSON object with keys
	profit_margin_pct, earnings_yield_pct, pe_ratio, dividend_yield_pct,
	confidence. No other output. Return the script in a single` + " ```python``` " + `code block.
`)

var synthesisInstruction = heredoc.Doc(`
	You are an equity research analyst writing a short note. Using the
	metrics and news summary provided, write 2 concise paragraphs: one on
	valuation, one on outlook. End with a single line of the form
	"Score: N" where N is an integer 0-100 reflecting overall
	attractiveness. Do not invent numbers; cite only figures you were
	given.
`)
