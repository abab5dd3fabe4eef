// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// SearchResult is one ranked search hit with source attribution.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// WebSearchTool retrieves ranked text snippets from the Custom Search JSON
// API. Only best-effort top results are relied upon; there is no
// pagination contract.
type WebSearchTool struct {
	base

	service    *customsearch.Service
	engineID   string
	maxResults int64
}

var _ Tool = (*WebSearchTool)(nil)

// NewWebSearchTool creates a web search tool with the given API key and
// programmable search engine ID.
func NewWebSearchTool(ctx context.Context, apiKey, engineID string) (*WebSearchTool, error) {
	service, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	return &WebSearchTool{
		base:       newBase("web_search", "Searches the web and returns ranked snippets with source links."),
		service:    service,
		engineID:   engineID,
		maxResults: 8,
	}, nil
}

// Search runs the query and returns the top results.
func (t *WebSearchTool) Search(ctx context.Context, query string) ([]*SearchResult, error) {
	var resp *customsearch.Search
	operation := func() error {
		var err error
		resp, err = t.service.Cse.List().
			Q(query).
			Cx(t.engineID).
			Num(t.maxResults).
			Context(ctx).
			Do()
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("web search %q: %w", query, err)
	}

	results := make([]*SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, &SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}

// Run implements [Tool].
func (t *WebSearchTool) Run(ctx context.Context, args map[string]any, toolCtx *Context) (any, error) {
	query, err := StringArg(args, "query")
	if err != nil {
		return nil, err
	}
	return t.Search(ctx, query)
}

// FormatSearchResults renders results as prompt-injectable text.
func FormatSearchResults(results []*SearchResult) string {
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n%s\nSource: %s\n\n", i+1, r.Title, r.Snippet, r.Link)
	}
	return sb.String()
}
