// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adcampaign

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-demos/artifact"
	"github.com/go-a2a/adk-demos/codeexec"
	"github.com/go-a2a/adk-demos/model"
	"github.com/go-a2a/adk-demos/pipeline"
	"github.com/go-a2a/adk-demos/session"
	"github.com/go-a2a/adk-demos/tool"
)

// Session state keys written by the pipeline stages.
const (
	KeyUserMessage   = "user_message"
	KeyParsedRequest = "parsed_request"
	KeyResearchNotes = "research_notes"
	KeyCreativeBrief = "creative_brief"
	KeyReport        = "campaign_report"

	// Per-branch keys recording the saved artifact filename.
	KeyDocumentArtifact = "artifact_document"
	KeyPosterArtifact   = "artifact_poster"
	KeyJingleArtifact   = "artifact_jingle"
)

var parseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"product":  {Type: genai.TypeString},
		"audience": {Type: genai.TypeString},
		"tone":     {Type: genai.TypeString},
	},
	Required: []string{"product"},
}

// ParseRequest extracts the structured brief from a raw user message.
func ParseRequest(ctx context.Context, m model.Model, userMessage string) (*ParsedRequest, error) {
	req := model.NewTextRequest(parseInstruction, userMessage)
	var parsed ParsedRequest
	if err := model.GenerateJSON(ctx, m, req, parseSchema, &parsed); err != nil {
		return nil, fmt.Errorf("parse request: %w", err)
	}
	return &parsed, nil
}

// researchStage gathers market notes for the product. Without a search
// tool it continues with empty notes.
type researchStage struct {
	model  model.Model
	search *tool.WebSearchTool
}

func (s *researchStage) Name() string { return "market_research" }

func (s *researchStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	if s.search == nil {
		return pipeline.Continue(map[string]any{KeyResearchNotes: ""}), nil
	}
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	results, err := s.search.Search(ctx, fmt.Sprintf("%s advertising market trends", parsed.Product))
	if err != nil {
		// Research is best effort; the brief stage works without it.
		return pipeline.Continue(map[string]any{KeyResearchNotes: ""}), nil
	}
	return pipeline.Continue(map[string]any{KeyResearchNotes: tool.FormatSearchResults(results)}), nil
}

var briefSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"headline":     {Type: genai.TypeString},
		"tagline":      {Type: genai.TypeString},
		"concept":      {Type: genai.TypeString},
		"poster_idea":  {Type: genai.TypeString},
		"jingle_lines": {Type: genai.TypeString},
		"fit_score":    {Type: genai.TypeNumber},
	},
	Required: []string{"headline", "tagline", "concept", "poster_idea", "jingle_lines", "fit_score"},
}

// briefStage synthesizes the creative brief that drives the media
// branches.
type briefStage struct {
	model model.Model
}

func (s *briefStage) Name() string { return "creative_brief" }

func (s *briefStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	notes := sess.State().GetString(KeyResearchNotes)

	reqJSON, err := sonic.Marshal(&parsed)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	prompt := fmt.Sprintf("Brief: %s\nMarket research notes:\n%s", reqJSON, notes)

	var raw struct {
		Headline    string  `json:"headline"`
		Tagline     string  `json:"tagline"`
		Concept     string  `json:"concept"`
		PosterIdea  string  `json:"poster_idea"`
		JingleLines string  `json:"jingle_lines"`
		FitScore    float64 `json:"fit_score"`
	}
	if err := model.GenerateJSON(ctx, s.model, model.NewTextRequest(briefInstruction, prompt), briefSchema, &raw); err != nil {
		return nil, fmt.Errorf("generate creative brief: %w", err)
	}
	brief, err := NewCreativeBrief(raw.Headline, raw.Tagline, raw.Concept, raw.PosterIdea, raw.JingleLines, raw.FitScore)
	if err != nil {
		return nil, err
	}
	return pipeline.Continue(map[string]any{KeyCreativeBrief: brief}), nil
}

// documentBranch renders the campaign document as HTML and saves it.
type documentBranch struct {
	model   model.Model
	toolCtx func(*session.Session) *tool.Context
}

func (b *documentBranch) Name() string { return "campaign_document" }

func (b *documentBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var brief CreativeBrief
	if err := sess.State().GetJSON(KeyCreativeBrief, &brief); err != nil {
		return nil, fmt.Errorf("missing creative brief: %w", err)
	}
	briefJSON, err := sonic.MarshalIndent(&brief, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode brief: %w", err)
	}

	resp, err := b.model.GenerateContent(ctx, model.NewTextRequest(documentInstruction, string(briefJSON)))
	if err != nil {
		return nil, fmt.Errorf("generate campaign document: %w", err)
	}
	html := resp.Text()
	if block, ok := codeexec.FirstCodeBlock(html, "html"); ok {
		html = block.Code
	}
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("model produced an empty document")
	}

	tc := b.toolCtx(sess)
	if _, err := tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
		"campaign.html", artifact.NewTextPart(html, "text/html")); err != nil {
		return nil, fmt.Errorf("save campaign document: %w", err)
	}
	return pipeline.Continue(map[string]any{KeyDocumentArtifact: "campaign.html"}), nil
}

// posterBranch generates the poster image and saves it.
type posterBranch struct {
	imagegen *tool.ImageGenTool
	toolCtx  func(*session.Session) *tool.Context
}

func (b *posterBranch) Name() string { return "poster_image" }

func (b *posterBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var brief CreativeBrief
	if err := sess.State().GetJSON(KeyCreativeBrief, &brief); err != nil {
		return nil, fmt.Errorf("missing creative brief: %w", err)
	}

	prompt := fmt.Sprintf("Advertising poster. %s Headline text: %q. Tagline: %q.",
		brief.PosterIdea, brief.Headline, brief.Tagline)
	media, err := b.imagegen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate poster: %w", err)
	}

	tc := b.toolCtx(sess)
	if _, err := tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
		"poster.png", artifact.NewPart(media.Data, media.MIMEType)); err != nil {
		return nil, fmt.Errorf("save poster: %w", err)
	}
	return pipeline.Continue(map[string]any{KeyPosterArtifact: "poster.png"}), nil
}

// jingleBranch synthesizes the jingle audio and saves it.
type jingleBranch struct {
	speechgen *tool.SpeechGenTool
	toolCtx   func(*session.Session) *tool.Context
}

func (b *jingleBranch) Name() string { return "jingle_audio" }

func (b *jingleBranch) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var brief CreativeBrief
	if err := sess.State().GetJSON(KeyCreativeBrief, &brief); err != nil {
		return nil, fmt.Errorf("missing creative brief: %w", err)
	}

	script := fmt.Sprintf("Singer: %s", brief.JingleLines)
	media, err := b.speechgen.Synthesize(ctx, script, []tool.Speaker{{Name: "Singer", Voice: "Kore"}})
	if err != nil {
		return nil, fmt.Errorf("synthesize jingle: %w", err)
	}

	tc := b.toolCtx(sess)
	if _, err := tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
		"jingle.wav", artifact.NewPart(media.Data, media.MIMEType)); err != nil {
		return nil, fmt.Errorf("save jingle: %w", err)
	}
	return pipeline.Continue(map[string]any{KeyJingleArtifact: "jingle.wav"}), nil
}

// productionStage fans the media branches out in parallel. Branch
// failures are isolated: the campaign ships with whatever succeeded, and
// the report lists what failed.
type productionStage struct {
	fanout  *pipeline.FanOut
	toolCtx func(*session.Session) *tool.Context
}

func newProductionStage(m model.Model, imagegen *tool.ImageGenTool, speechgen *tool.SpeechGenTool, toolCtx func(*session.Session) *tool.Context) *productionStage {
	branches := []pipeline.Stage{
		&documentBranch{model: m, toolCtx: toolCtx},
	}
	if imagegen != nil {
		branches = append(branches, &posterBranch{imagegen: imagegen, toolCtx: toolCtx})
	}
	if speechgen != nil {
		branches = append(branches, &jingleBranch{speechgen: speechgen, toolCtx: toolCtx})
	}
	return &productionStage{
		fanout:  pipeline.NewFanOut("produce_media", branches...),
		toolCtx: toolCtx,
	}
}

func (s *productionStage) Name() string { return "produce_media" }

func (s *productionStage) Run(ctx context.Context, sess *session.Session) (*pipeline.Result, error) {
	var parsed ParsedRequest
	if err := sess.State().GetJSON(KeyParsedRequest, &parsed); err != nil {
		return nil, fmt.Errorf("missing parsed request: %w", err)
	}
	var brief CreativeBrief
	if err := sess.State().GetJSON(KeyCreativeBrief, &brief); err != nil {
		return nil, fmt.Errorf("missing creative brief: %w", err)
	}

	fanReport, err := s.fanout.Run(ctx, sess)
	if err != nil {
		return nil, err
	}
	if len(fanReport.Succeeded) == 0 {
		return pipeline.Halt("every media branch failed"), nil
	}

	var saved []string
	for _, key := range []string{KeyDocumentArtifact, KeyPosterArtifact, KeyJingleArtifact} {
		if name := sess.State().GetString(key); name != "" {
			saved = append(saved, name)
		}
	}
	// Map iteration order varies, the persisted report should not.
	var failed []string
	for branch := range fanReport.Failed {
		failed = append(failed, branch)
	}
	sort.Strings(failed)

	report, err := NewReport(parsed, &brief, saved, failed)
	if err != nil {
		return nil, err
	}

	tc := s.toolCtx(sess)
	if tc.Artifacts != nil {
		if data, err := report.Encode(); err == nil {
			_, _ = tc.Artifacts.SaveArtifact(ctx, sess.AppName(), sess.UserID(), sess.ID(),
				"campaign_report.json", artifact.NewPart(data, "application/json"))
		}
	}
	return pipeline.Continue(map[string]any{KeyReport: report}), nil
}
