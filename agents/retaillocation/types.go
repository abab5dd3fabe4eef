// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package retaillocation implements the retail location scout demo agent.
// Given a request like "find a spot for a bakery in Mumbai" it parses the
// request, proposes a research plan for approval, and on approval scores
// candidate districts with a sandboxed Python step before writing a
// recommendation report.
package retaillocation

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ParsedRequest is the structured form of the user's scouting request.
type ParsedRequest struct {
	TargetLocation string `json:"target_location" validate:"required"`
	BusinessType   string `json:"business_type" validate:"required"`
	Context        string `json:"context,omitempty"`
}

// Plan is the research plan presented to the user before execution.
type Plan struct {
	Request ParsedRequest `json:"request"`
	Steps   []string      `json:"steps" validate:"required,min=1"`
}

// Text renders the plan for presentation in the chat transcript.
func (p *Plan) Text() string {
	out := fmt.Sprintf("Research plan for a %s in %s:\n", p.Request.BusinessType, p.Request.TargetLocation)
	for i, step := range p.Steps {
		out += fmt.Sprintf("  %d. %s\n", i+1, step)
	}
	out += "Reply \"approve\" to run it, or tell me what to change."
	return out
}

// DistrictScore is one scored candidate district. Scores are on a 0-100
// scale and are validated at construction time.
type DistrictScore struct {
	District      string  `json:"district" validate:"required"`
	OverallScore  float64 `json:"overall_score" validate:"gte=0,lte=100"`
	FootTraffic   float64 `json:"foot_traffic" validate:"gte=0,lte=100"`
	Affordability float64 `json:"affordability" validate:"gte=0,lte=100"`
	Demand        float64 `json:"demand" validate:"gte=0,lte=100"`
	Rationale     string  `json:"rationale,omitempty"`
}

// NewDistrictScore validates and returns a scored district. Scores outside
// [0, 100] are rejected.
func NewDistrictScore(district string, overall, footTraffic, affordability, demand float64, rationale string) (*DistrictScore, error) {
	ds := &DistrictScore{
		District:      district,
		OverallScore:  overall,
		FootTraffic:   footTraffic,
		Affordability: affordability,
		Demand:        demand,
		Rationale:     rationale,
	}
	if err := validate.Struct(ds); err != nil {
		return nil, fmt.Errorf("invalid district score for %s: %w", district, err)
	}
	return ds, nil
}

// Report is the final location recommendation.
type Report struct {
	Request     ParsedRequest    `json:"request"`
	Recommended string           `json:"recommended" validate:"required"`
	Scores      []*DistrictScore `json:"scores" validate:"required,min=1,dive"`
	Narrative   string           `json:"narrative" validate:"required"`
}

// NewReport validates and returns a report. The recommended district must
// carry valid scores.
func NewReport(request ParsedRequest, recommended string, scores []*DistrictScore, narrative string) (*Report, error) {
	r := &Report{
		Request:     request,
		Recommended: recommended,
		Scores:      scores,
		Narrative:   narrative,
	}
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("invalid location report: %w", err)
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
		return nil, fmt.Errorf("parse location report: %w", err)
	}
	if err := validate.Struct(&r); err != nil {
		return nil, fmt.Errorf("invalid location report: %w", err)
	}
	return &r, nil
}
