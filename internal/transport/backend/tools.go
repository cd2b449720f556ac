package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kailas-cloud/seoscribe/internal/domain"
)

// Tool names a backend SEO tool.
type Tool string

// Tools served under /tools/.
const (
	ToolSERPPreview        Tool = "serp-preview"
	ToolHeadlineAnalyzer   Tool = "headline-analyzer"
	ToolReadability        Tool = "readability"
	ToolPlagiarism         Tool = "plagiarism"
	ToolCompetitorAnalysis Tool = "competitor-analysis"
	ToolKeywords           Tool = "keywords"
	ToolContentBrief       Tool = "content-brief"
	ToolMetaDescription    Tool = "meta-description"
)

// Tools lists every known tool.
var Tools = []Tool{
	ToolSERPPreview,
	ToolHeadlineAnalyzer,
	ToolReadability,
	ToolPlagiarism,
	ToolCompetitorAnalysis,
	ToolKeywords,
	ToolContentBrief,
	ToolMetaDescription,
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	for _, k := range Tools {
		if k == t {
			return true
		}
	}
	return false
}

// SERPPreviewInput is the body for ToolSERPPreview.
type SERPPreviewInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url,omitempty"`
}

// HeadlineInput is the body for ToolHeadlineAnalyzer.
type HeadlineInput struct {
	Headline string `json:"headline"`
}

// TextInput is the body for ToolReadability and ToolPlagiarism.
type TextInput struct {
	Text string `json:"text"`
}

// KeywordInput is the body for ToolCompetitorAnalysis and ToolContentBrief.
type KeywordInput struct {
	Keyword string `json:"keyword"`
	Region  string `json:"region,omitempty"`
}

// KeywordsInput is the body for ToolKeywords.
type KeywordsInput struct {
	Topic  string `json:"topic,omitempty"`
	Text   string `json:"text,omitempty"`
	Region string `json:"region,omitempty"`
}

// MetaInput is the body for ToolMetaDescription.
type MetaInput struct {
	Content string `json:"content"`
	Keyword string `json:"keyword,omitempty"`
}

// RunTool posts payload to /tools/<tool> and returns the raw result.
func (c *Client) RunTool(ctx context.Context, tool Tool, payload any) (json.RawMessage, error) {
	if !tool.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTool, tool)
	}
	var out json.RawMessage
	err := c.doJSON(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/tools/" + string(tool),
		Body:     payload,
		Endpoint: "/tools/" + string(tool),
	}, &out)
	return out, err
}
