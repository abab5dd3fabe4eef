// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package equityresearch

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/codeexec"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/pkg/logging"
	"github.com/go-a2a/adk-demos/seed"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// Session state keys written by the pipeline stages.
const (
	KeyUserMessage   = "user_message"
	KeyParsedRequest = "parsed_request"
	KeyFundamentals  = "fundamentals"
	KeyNewsSummary   = "news_summary"
	KeyMetrics       = "metrics"
	KeyReport        = "research_note"
)

var parseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"ticker": {Type: genai.TypeString},
		"focus":  {Type: genai.TypeString},
	},
	Required: []string{"ticker"},
}

// ParseRequest extracts the structured request from a raw user message.
func ParseRequest(ctx context.Context, m model.Model, userMessage string) (*ParsedRequest, error) {
	req := model.NewTextRequest(parseInstruction, userMessage)
	var parsed ParsedRequest
	if err := model.GenerateJSON(ctx, m, req, parseSchema, &parsed); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	parsed.Ticker = strings.ToUpper(strings.TrimSpace(parsed.Ticker))
	return &parsed, nil
}

// fundamentalsBranch loads the ticker's fundamentals from the seed store.
// A missing ticker is a branch failure, not a process crash; the join
// records it and the downstream stage halts cleanly.
type fundamentalsBranch struct {
	store *seed.Store
}

func (b *fundamentalsBranch) Name() string { return "fundamentals" }

func (b *fundamentalsBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	f, err := b.store.Fundamentals(ctx, parsed.Ticker)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("no fundamentals on file for %s", parsed.Ticker)
	}
	return pipeline.Continue(map[string]any{KeyFundamentals: f}), nil
}

// newsBranch searches recent news and summarizes it. When no search tool
// is configured the branch succeeds with an empty summary.
type newsBranch struct {
	model  model.Model
	search *tool.WebSearchTool
}

func (b *newsBranch) Name() string { return "news_search" }

func (b *newsBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	if b.search == nil {
		return pipeline.Continue(map[string]any{KeyNewsSummary: ""}), nil
	}
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}

	results, err := b.search.Search(ctx, fmt.Sprintf("%s stock news", parsed.Ticker))
	if err != nil {
		return nil, fmt.Errorf("news search: %w", err)
	}
	resp, err := b.model.GenerateContent(ctx,
		model.NewTextRequest(newsSummaryInstruction, tool.FormatSearchResults(results)))
	if err != nil {
		return nil, fmt.Errorf("summarize news: %w", err)
	}
	return pipeline.Continue(map[string]any{KeyNewsSummary: resp.Text()}), nil
}

// researchStage fans the news and fundamentals branches out in parallel.
// A failed news branch degrades the note; a failed fundamentals branch
// halts the pipeline.
type researchStage struct {
	fanout *pipeline.FanOut
}

func newResearchStage(m model.Model, store *seed.Store, search *tool.WebSearchTool) *researchStage {
	return &researchStage{
		fanout: pipeline.NewFanOut("gather_research",
			&fundamentalsBranch{store: store},
			&newsBranch{model: m, search: search},
		),
	}
}

func (s *researchStage) Name() string { return "gather_research" }

func (s *researchStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	report, err := s.fanout.Run(ctx, sess)
	if err != nil {
		return nil, err
	}
	if ferr, ok := report.Failed["fundamentals"]; ok {
		return pipeline.Halt(fmt.Sprintf("fundamentals unavailable: %v", ferr)), nil
	}
	if ferr, ok := report.Failed["news_search"]; ok {
		logging.FromContext(ctx).WarnContext(ctx, "news search failed, continuing without it", "error", ferr)
		sess.State().Set(KeyNewsSummary, "")
	}
	return pipeline.Continue(nil), nil
}

// metricsStage has the model write a metrics script, runs it in the code
// sandbox, and validates the figures it prints.
type metricsStage struct {
	model    model.Model
	executor *tool.CodeExecutionTool
	toolCtx  func(*session.Session) *tool.Context
}

func (s *metricsStage) Name() string { return "compute_metrics" }

func (s *metricsStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var f seed.Fundamentals
	if err := sess.State().GetJSON(KeyFundamentals, &f); err != nil {
		return nil, fmt.Errorf("missing fundamentals: %w", err)
	}
	fJSON, err := sonic.MarshalIndent(&f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode fundamentals: %w", err)
	}

	prompt := fmt.Sprintf("FUNDAMENTALS = %s\n\nWrite the metrics script.", fJSON)
	resp, err := s.model.GenerateContent(ctx, model.NewTextRequest(metricsScriptInstruction, prompt))
	if err != nil {
		return nil, fmt.Errorf("generate metrics script: %w", err)
	}
	block, ok := codeexec.FirstCodeBlock(resp.Text(), "python")
	if !ok {
		return nil, fmt.Errorf("model response contains no python code block")
	}

	result, err := s.executor.Execute(ctx, block.Code, s.toolCtx(sess))
	if err != nil {
		return nil, fmt.Errorf("run metrics script: %w", err)
	}
	if result.Stderr != "" && strings.TrimSpace(result.Stdout) == "" {
		return nil, fmt.Errorf("metrics script failed: %s", result.Stderr)
	}

	metrics, err := parseMetrics(result.Stdout)
	if err != nil {
		return nil, err
	}
	return pipeline.Continue(map[string]any{KeyMetrics: metrics}), nil
}

// parseMetrics decodes the script's stdout and re-validates it through
// the Metrics constructor.
func parseMetrics(stdout string) (*Metrics, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])

	var raw struct {
		ProfitMarginPct  float64 `json:"profit_margin_pct"`
		EarningsYieldPct float64 `json:"earnings_yield_pct"`
		PERatio          float64 `json:"pe_ratio"`
		DividendYieldPct float64 `json:"dividend_yield_pct"`
		Confidence       float64 `json:"confidence"`
	}
	if err := sonic.Unmarshal([]byte(last), &raw); err != nil {
		return nil, fmt.Errorf("parse metrics output: %w", err)
	}
	return NewMetrics(raw.ProfitMarginPct, raw.EarningsYieldPct, raw.PERatio, raw.DividendYieldPct, raw.Confidence)
}

var scoreLineRe = regexp.MustCompile(`(?m)^Score:\s*(\d{1,3})\s*$`)

// synthesisStage writes the research note, extracts the model's score and
// stores the validated report as an artifact.
type synthesisStage struct {
	model   model.Model
	toolCtx func(*session.Session) *tool.Context
}

func (s *synthesisStage) Name() string { return "write_note" }

func (s *synthesisStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	var f seed.Fundamentals
	if err := sess.State().GetJSON(KeyFundamentals, &f); err != nil {
		return nil, fmt.Errorf("missing fundamentals: %w", err)
	}
	var metrics Metrics
	if err := sess.State().GetJSON(KeyMetrics, &metrics); err != nil {
		return nil, fmt.Errorf("missing metrics: %w", err)
	}
	news := sess.State().GetString(KeyNewsSummary)

	metricsJSON, err := sonic.MarshalIndent(&metrics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	prompt := fmt.Sprintf("Company: %s (%s)\nMetrics:\n%s\nRecent news: %s",
		f.Name, f.Ticker, metricsJSON, news)
	resp, err := s.model.GenerateContent(ctx, model.NewTextRequest(synthesisInstruction, prompt))
	if err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	narrative := resp.Text()
	score, err := extractScore(narrative)
	if err != nil {
		return nil, err
	}

	report, err := NewReport(parsed, f.Name, score, &metrics, news, narrative)
	if err != nil {
		return nil, err
	}

	tc := s.toolCtx(sess)
	if tc.Artifacts != nil {
		if data, err := report.Encode(); err == nil {
			_, _ = tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
				"research_note.json", artifact.NewPart(data, "application/json"))
		}
	}

	return pipeline.Continue(map[string]any{KeyReport: report}), nil
}

func extractScore(narrative string) (float64, error) {
	m := scoreLineRe.FindStringSubmatch(narrative)
	if m == nil {
		return 0, fmt.Errorf("note is missing its Score line")
	}
	score, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", m[1], err)
	}
	return score, nil
}
