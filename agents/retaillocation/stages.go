// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package retaillocation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/codeexec"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/seed"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// Session state keys written by the pipeline stages.
const (
	KeyUserMessage    = "user_message"
	KeyParsedRequest  = "parsed_request"
	KeyDistrictsData  = "districts_data"
	KeyDistrictScores = "district_scores"
	KeyReport         = "location_report"
)

var parseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"target_location": {Type: genai.TypeString},
		"business_type":   {Type: genai.TypeString},
		"context":         {Type: genai.TypeString},
	},
	Required: []string{"target_location", "business_type"},
}

// ParseRequest extracts the structured request from a raw user message.
func ParseRequest(ctx context.Context, m model.Model, userMessage string) (*ParsedRequest, error) {
	req := model.NewTextRequest(parseInstruction, userMessage)
	var parsed ParsedRequest
	if err := model.GenerateJSON(ctx, m, req, parseSchema, &parsed); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &parsed, nil
}

// districtData is the per-district research record fed to the scoring
// script. It extends the seed row with a competitor count.
type districtData struct {
	District            string  `json:"district"`
	Population          int     `json:"population"`
	IncomeTier          string  `json:"income_tier"`
	FootTrafficIndex    float64 `json:"foot_traffic_index"`
	CommercialRentIndex float64 `json:"commercial_rent_index"`
	CompetitorCount     int     `json:"competitor_count"`
}

// researchStage gathers district demographics from the seed store and,
// when a places client is configured, competitor counts per district.
type researchStage struct {
	store  *seed.Store
	places *tool.PlacesTool
}

func (s *researchStage) Name() string { return "research_districts" }

func (s *researchStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}

	districts, err := s.store.Districts(ctx, parsed.TargetLocation)
	if err != nil {
		return nil, err
	}
	if len(districts) == 0 {
		return pipeline.Halt(fmt.Sprintf("no district data for %q", parsed.TargetLocation)), nil
	}

	data := make([]*districtData, 0, len(districts))
	for _, d := range districts {
		rec := &districtData{
			District:            d.District,
			Population:          d.Population,
			IncomeTier:          d.IncomeTier,
			FootTrafficIndex:    d.FootTrafficIndex,
			CommercialRentIndex: d.CommercialRentIndex,
		}
		if s.places != nil {
			query := fmt.Sprintf("%s in %s, %s", parsed.BusinessType, d.District, d.City)
			places, err := s.places.TextSearch(ctx, query)
			if err == nil {
				rec.CompetitorCount = len(places)
			}
		}
		data = append(data, rec)
	}

	return pipeline.Continue(map[string]any{KeyDistrictsData: data}), nil
}

// scoringStage has the model write a scoring script, runs it in the code
// sandbox, and validates the scores it prints.
type scoringStage struct {
	model    model.Model
	executor *tool.CodeExecutionTool
	toolCtx  func(*session.Session) *tool.Context
}

func (s *scoringStage) Name() string { return "score_districts" }

func (s *scoringStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var data []*districtData
	if err := sess.State().GetJSON(KeyDistrictsData, &data); err != nil {
		return nil, fmt.Errorf("missing district data: %w", err)
	}
	dataJSON, err := sonic.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode district data: %w", err)
	}

	prompt := fmt.Sprintf("DISTRICTS = %s\n\nWrite the scoring script.", dataJSON)
	resp, err := s.model.GenerateContent(ctx, model.NewTextRequest(scoringScriptInstruction, prompt))
	if err != nil {
		return nil, fmt.Errorf("generate scoring script: %w", err)
	}

	block, ok := codeexec.FirstCodeBlock(resp.Text(), "python")
	if !ok {
		return nil, fmt.Errorf("model response contains no python code block")
	}

	result, err := s.executor.Execute(ctx, block.Code, s.toolCtx(sess))
	if err != nil {
		return nil, fmt.Errorf("run scoring script: %w", err)
	}
	if result.Stderr != "" && strings.TrimSpace(result.Stdout) == "" {
		return nil, fmt.Errorf("scoring script failed: %s", result.Stderr)
	}

	scores, err := parseScores(result.Stdout)
	if err != nil {
		return nil, err
	}
	return pipeline.Continue(map[string]any{KeyDistrictScores: scores}), nil
}

// parseScores decodes the script's stdout and re-validates every score
// through the DistrictScore constructors.
func parseScores(stdout string) ([]*DistrictScore, error) {
	var raw []struct {
		District      string  `json:"district"`
		OverallScore  float64 `json:"overall_score"`
		FootTraffic   float64 `json:"foot_traffic"`
		Affordability float64 `json:"affordability"`
		Demand        float64 `json:"demand"`
	}
	line := lastNonEmptyLine(stdout)
	if err := sonic.Unmarshal([]byte(line), &raw); err != nil {
		return nil, fmt.Errorf("parse scoring output: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("scoring script produced no scores")
	}

	scores := make([]*DistrictScore, 0, len(raw))
	for _, r := range raw {
		ds, err := NewDistrictScore(r.District, r.OverallScore, r.FootTraffic, r.Affordability, r.Demand, "")
		if err != nil {
			return nil, err
		}
		scores = append(scores, ds)
	}
	return scores, nil
}

func lastNonEmptyLine(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// synthesisStage writes the recommendation narrative and stores the final
// report as an artifact.
type synthesisStage struct {
	model   model.Model
	toolCtx func(*session.Session) *tool.Context
}

func (s *synthesisStage) Name() string { return "write_report" }

func (s *synthesisStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	var scores []*DistrictScore
	if err := sess.State().GetJSON(KeyDistrictScores, &scores); err != nil {
		return nil, fmt.Errorf("missing district scores: %w", err)
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.OverallScore > best.OverallScore {
			best = s
		}
	}

	scoresJSON, err := sonic.MarshalIndent(scores, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode scores: %w", err)
	}
	prompt := fmt.Sprintf("Business: %s\nCity: %s\nTop district: %s\nScores:\n%s",
		parsed.BusinessType, parsed.TargetLocation, best.District, scoresJSON)
	resp, err := s.model.GenerateContent(ctx, model.NewTextRequest(synthesisInstruction, prompt))
	if err != nil {
		return nil, fmt.Errorf("write narrative: %w", err)
	}

	report, err := NewReport(parsed, best.District, scores, resp.Text())
	if err != nil {
		return nil, err
	}

	tc := s.toolCtx(sess)
	if tc.Artifacts != nil {
		if data, err := report.Encode(); err == nil {
			_, _ = tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
				"location_report.json", artifact.NewPart(data, "application/json"))
		}
	}

	return pipeline.Continue(map[string]any{KeyReport: report}), nil
}
