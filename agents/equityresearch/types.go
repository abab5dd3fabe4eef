// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package equityresearch implements the equity research demo agent. It
// parses a ticker request, proposes a research plan for approval, then
// fans out news search and fundamentals lookups in parallel, computes
// valuation metrics with a sandboxed Python step, and writes a rated
// research note.
package equityresearch

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParsedRequest is the structured form of the user's research request.
type ParsedRequest struct {
	Ticker string `json:"ticker" validate:"required"`
	Focus  string `json:"focus,omitempty"`
}

// Plan is the research plan presented for approval.
type Plan struct {
	Request ParsedRequest `json:"request"`
	Steps   []string      `json:"steps" validate:"required,min=1"`
}

// Text renders the plan for the chat transcript.
func (p *Plan) Text() string {
	out := fmt.Sprintf("Research plan for %s:\n", p.Request.Ticker)
	for i, step := range p.Steps {
		out += fmt.Sprintf("  %d. %s\n", i+1, step)
	}
	out += "Reply \"approve\" to run it, or tell me what to change."
	return out
}

// Metrics are the computed valuation figures. Confidence is on a 0-100
// scale and validated at construction.
type Metrics struct {
	ProfitMarginPct  float64 `json:"profit_margin_pct"`
	EarningsYieldPct float64 `json:"earnings_yield_pct"`
	PERatio          float64 `json:"pe_ratio"`
	DividendYieldPct float64 `json:"dividend_yield_pct"`
	Confidence       float64 `json:"confidence" validate:"gte=0,lte=100"`
}

// NewMetrics validates and returns the computed metrics.
func NewMetrics(profitMargin, earningsYield, peRatio, dividendYield, confidence float64) (*Metrics, error) {
	m := &Metrics{
		ProfitMarginPct:  profitMargin,
		EarningsYieldPct: earningsYield,
		PERatio:          peRatio,
		DividendYieldPct: dividendYield,
		Confidence:       confidence,
	}
	if err := validate.Struct(m); err != nil {
		return nil, fmt.Errorf("invalid metrics: %w", err)
	}
	return m, nil
}

// Report is the final research note. OverallScore is on a 0-100 scale.
type Report struct {
	Request      ParsedRequest `json:"request"`
	CompanyName  string        `json:"company_name" validate:"required"`
	OverallScore float64       `json:"overall_score" validate:"gte=0,lte=100"`
	Metrics      *Metrics      `json:"metrics" validate:"required"`
	NewsSummary  string        `json:"news_summary,omitempty"`
	Narrative    string        `json:"narrative" validate:"required"`
}

// NewReport validates and returns a research note. Scores outside [0, 100]
// are rejected.
func NewReport(request ParsedRequest, companyName string, overallScore float64, metrics *Metrics, newsSummary, narrative string) (*Report, error) {
	r := &Report{
		Request:      request,
		CompanyName:  companyName,
		OverallScore: overallScore,
		Metrics:      metrics,
		NewsSummary:  newsSummary,
		Narrative:    narrative,
	}
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("invalid research note: %w", err)
	}
	return r, nil
}

// Encode renders the report as JSON for artifact storage.
func (r *Report) Encode() ([]byte, error) {
	return sonic.MarshalIndent(r, "", "  ")
}

// ParseReport decodes a previously marshaled report and re-validates it.
func ParseReport(data []byte) (*Report, error) {
	var r Report
	if err := sonic.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse research note: %w", err)
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid research note: %w", err)
	}
	return &r, nil
}
