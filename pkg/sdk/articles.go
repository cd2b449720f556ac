package seoscribe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
)

// ArticleService generates, expands and stores articles.
type ArticleService struct {
	svc     articleUseCase
	backend backendAPI
	quota   quotaUseCase
	obs     *observer
}

// Generate drafts a new article. It fails fast with ErrQuotaExceeded when
// the local mirror shows no generations left today, without calling the
// backend. The quota is reconciled after every attempt that reached it.
func (s *ArticleService) Generate(
	ctx context.Context, req DraftRequest,
) (_ Article, err error) {
	start := time.Now()
	defer func() { s.observe("article.generate", start, err) }()

	a, err := s.svc.Generate(ctx, toInternalDraft(req))
	if err != nil {
		return Article{}, fmt.Errorf("generate article: %w", err)
	}
	return fromInternalArticle(a), nil
}

// Expand lengthens a saved article. Requires a signed-in session and an
// expansion count below the plan's per-article limit (ErrExpansionLimit).
func (s *ArticleService) Expand(
	ctx context.Context, req ExpandRequest,
) (_ Article, err error) {
	start := time.Now()
	defer func() { s.observe("article.expand", start, err) }()

	a, err := s.svc.Expand(ctx, articleuc.ExpandInput{
		ID:         req.ArticleID,
		Keyword:    req.Keyword,
		WebsiteURL: req.WebsiteURL,
	})
	if err != nil {
		return Article{}, fmt.Errorf("expand article %s: %w", req.ArticleID, err)
	}
	return fromInternalArticle(a), nil
}

// List returns the signed-in user's library.
func (s *ArticleService) List(ctx context.Context) (_ []Article, err error) {
	start := time.Now()
	defer func() { s.obs.observe("article.list", start, err) }()

	list, err := s.svc.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return fromInternalArticles(list), nil
}

// Get fetches one article.
func (s *ArticleService) Get(ctx context.Context, id string) (_ Article, err error) {
	start := time.Now()
	defer func() { s.obs.observe("article.get", start, err) }()

	a, err := s.svc.Get(ctx, id)
	if err != nil {
		return Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return fromInternalArticle(a), nil
}

// Save creates the article when it has no ID and updates it otherwise.
func (s *ArticleService) Save(ctx context.Context, a Article) (_ Article, err error) {
	start := time.Now()
	defer func() { s.obs.observe("article.save", start, err) }()

	saved, err := s.svc.Save(ctx, toInternalArticle(a))
	if err != nil {
		return Article{}, fmt.Errorf("save article: %w", err)
	}
	return fromInternalArticle(saved), nil
}

// Delete removes an article from the library.
func (s *ArticleService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("article.delete", start, err) }()

	if err = s.svc.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}

// Templates lists the outlines available to GenerateFromTemplate.
func (s *ArticleService) Templates(ctx context.Context) (_ []Template, err error) {
	start := time.Now()
	defer func() { s.obs.observe("template.list", start, err) }()

	list, err := s.backend.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return fromInternalTemplates(list), nil
}

// GenerateFromTemplate drafts an article from a template and returns the
// backend payload as is.
func (s *ArticleService) GenerateFromTemplate(
	ctx context.Context, templateID, topic, region string,
) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.observe("template.generate", start, err) }()

	out, err := s.backend.GenerateFromTemplate(ctx, backend.TemplateRequest{
		TemplateID: templateID,
		Topic:      topic,
		Region:     region,
	})
	s.quota.RefreshUsage(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate from template %s: %w", templateID, err)
	}
	return out, nil
}

// Assistant sends a writing-assistant request and returns the reply verbatim.
func (s *ArticleService) Assistant(ctx context.Context, payload any) (_ json.RawMessage, err error) {
	start := time.Now()
	defer func() { s.obs.observe("assistant", start, err) }()

	out, err := s.backend.Assistant(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}
	return out, nil
}

// observe records the operation and the quota it left behind.
func (s *ArticleService) observe(op string, start time.Time, err error) {
	s.obs.observe(op, start, err)
	s.obs.quota(fromInternalStatus(s.quota.Status()))
}
