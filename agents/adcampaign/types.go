// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package adcampaign implements the ad campaign demo agent. It parses a
// campaign brief, proposes a creative plan for approval, researches the
// market, and then fans out media production: an HTML campaign document,
// a poster image and a jingle audio track, each saved as an artifact.
package adcampaign

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParsedRequest is the structured form of the user's campaign brief.
type ParsedRequest struct {
	Product  string `json:"product" validate:"required"`
	Audience string `json:"audience,omitempty"`
	Tone     string `json:"tone,omitempty"`
}

// Plan is the creative plan presented for approval.
type Plan struct {
	Request ParsedRequest `json:"request"`
	Steps   []string      `json:"steps" validate:"required,min=1"`
}

// Text renders the plan for the chat transcript.
func (p *Plan) Text() string {
	out := fmt.Sprintf("Campaign plan for %s:\n", p.Request.Product)
	for i, step := range p.Steps {
		out += fmt.Sprintf("  %d. %s\n", i+1, step)
	}
	out += "Reply \"approve\" to run it, or tell me what to change."
	return out
}

// CreativeBrief is the synthesized creative direction driving every media
// branch. FitScore rates how well the concept matches the brief on a
// 0-100 scale and is validated at construction.
type CreativeBrief struct {
	Headline    string  `json:"headline" validate:"required"`
	Tagline     string  `json:"tagline" validate:"required"`
	Concept     string  `json:"concept" validate:"required"`
	PosterIdea  string  `json:"poster_idea" validate:"required"`
	JingleLines string  `json:"jingle_lines" validate:"required"`
	FitScore    float64 `json:"fit_score" validate:"gte=0,lte=100"`
}

// NewCreativeBrief validates and returns a creative brief.
func NewCreativeBrief(headline, tagline, concept, posterIdea, jingleLines string, fitScore float64) (*CreativeBrief, error) {
	b := &CreativeBrief{
		Headline:    headline,
		Tagline:     tagline,
		Concept:     concept,
		PosterIdea:  posterIdea,
		JingleLines: jingleLines,
		FitScore:    fitScore,
	}
	if err := validate.Struct(b); err != nil {
		return nil, fmt.Errorf("invalid creative brief: %w", err)
	}
	return b, nil
}

// Report summarizes the produced campaign and which media branches
// succeeded.
type Report struct {
	Request   ParsedRequest  `json:"request"`
	Brief     *CreativeBrief `json:"brief" validate:"required"`
	Artifacts []string       `json:"artifacts"`
	Failed    []string       `json:"failed,omitempty"`
}

// NewReport validates and returns a campaign report.
func NewReport(request ParsedRequest, brief *CreativeBrief, artifacts, failed []string) (*Report, error) {
	r := &Report{Request: request, Brief: brief, Artifacts: artifacts, Failed: failed}
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("invalid campaign report: %w", err)
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
		return nil, fmt.Errorf("parse campaign report: %w", err)
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid campaign report: %w", err)
	}
	return &r, nil
}
