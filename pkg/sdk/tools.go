package seoscribe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// ToolService runs the backend SEO tools.
type ToolService struct {
	svc   toolUseCase
	quota quotaUseCase
	obs   *observer
}

// Run calls a tool with a JSON-encodable payload and returns the backend's
// answer verbatim. It fails fast with ErrToolLimitReached when the local
// mirror shows no tool uses left today, and with ErrUnknownTool for names
// outside the Tool constants.
func (s *ToolService) Run(
	ctx context.Context, tool Tool, payload any,
) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("tool."+string(tool), start, err)
		s.obs.quota(fromInternalStatus(s.quota.Status()))
	}()

	out, err := s.svc.Run(ctx, backend.Tool(tool), payload)
	if err != nil {
		return nil, fmt.Errorf("run tool %s: %w", tool, err)
	}
	return out, nil
}

// SERPPreview renders how a page would look in search results.
func (s *ToolService) SERPPreview(ctx context.Context, title, description, pageURL string) (json.RawMessage, error) {
	return s.Run(ctx, ToolSERPPreview, backend.SERPPreviewInput{Title: title, Description: description, URL: pageURL})
}

// HeadlineAnalyzer scores a headline.
func (s *ToolService) HeadlineAnalyzer(ctx context.Context, headline string) (json.RawMessage, error) {
	return s.Run(ctx, ToolHeadlineAnalyzer, backend.HeadlineInput{Headline: headline})
}

// Readability scores a text.
func (s *ToolService) Readability(ctx context.Context, text string) (json.RawMessage, error) {
	return s.Run(ctx, ToolReadability, backend.TextInput{Text: text})
}

// Keywords suggests keywords for a topic in a search region.
func (s *ToolService) Keywords(ctx context.Context, topic, region string) (json.RawMessage, error) {
	return s.Run(ctx, ToolKeywords, backend.KeywordsInput{Topic: topic, Region: region})
}
