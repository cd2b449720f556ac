// Package article runs generation and library workflows: quota check,
// backend call, then usage reconciliation.
package article

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// Draft defaults.
const (
	DefaultWordCount = 3000
	DefaultRegion    = "us"
)

// Service coordinates article operations.
type Service struct {
	backend Backend
	quota   Quota
	session Session
}

// New creates a Service.
func New(b Backend, q Quota, s Session) *Service {
	return &Service{backend: b, quota: q, session: s}
}

// Generate drafts a new article if the daily quota allows it.
func (s *Service) Generate(ctx context.Context, req backend.DraftRequest) (article.Article, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return article.Article{}, errors.New("topic is required")
	}
	if req.TargetWordCount <= 0 {
		req.TargetWordCount = DefaultWordCount
	}
	if req.Region == "" {
		req.Region = DefaultRegion
	}

	if !s.quota.CanGenerate() {
		return article.Article{}, domain.ErrQuotaExceeded
	}

	a, err := s.backend.Draft(ctx, req)
	if err != nil {
		// The backend may have counted the attempt; resync either way.
		s.quota.RefreshUsage(ctx)
		return article.Article{}, fmt.Errorf("generate article: %w", err)
	}

	s.quota.NoteGeneration()
	s.quota.RefreshUsage(ctx)
	return a, nil
}

// ExpandInput identifies the article to expand.
type ExpandInput struct {
	ID         string
	Keyword    string
	WebsiteURL string
}

// Expand lengthens a saved article and stores the result with its expansion count bumped.
func (s *Service) Expand(ctx context.Context, in ExpandInput) (article.Article, error) {
	if !s.session.SignedIn(ctx) {
		return article.Article{}, domain.ErrUnauthorized
	}

	current, err := s.backend.GetArticle(ctx, in.ID)
	if err != nil {
		return article.Article{}, fmt.Errorf("load article %s: %w", in.ID, err)
	}

	if limit := s.quota.MaxExpansions(); current.ExpansionCount >= limit {
		return article.Article{}, fmt.Errorf("%w: %d of %d used", domain.ErrExpansionLimit, current.ExpansionCount, limit)
	}

	expanded, err := s.backend.Expand(ctx, backend.ExpandRequest{
		ArticleJSON: current.Data,
		ArticleID:   current.ID,
		Keyword:     in.Keyword,
		WebsiteURL:  in.WebsiteURL,
	})
	if err != nil {
		return article.Article{}, fmt.Errorf("expand article %s: %w", in.ID, err)
	}

	updated := current
	updated.Data = expanded.Data
	updated.ExpansionCount = current.ExpansionCount + 1
	if expanded.Title != "" {
		updated.Title = expanded.Title
	}
	if expanded.WordCount > 0 {
		updated.WordCount = expanded.WordCount
	}
	if expanded.ReadingTimeMinutes > 0 {
		updated.ReadingTimeMinutes = expanded.ReadingTimeMinutes
	}

	if err := s.backend.UpdateArticle(ctx, current.ID, backend.InputOf(updated)); err != nil {
		return article.Article{}, fmt.Errorf("save expanded article %s: %w", in.ID, err)
	}

	s.quota.RefreshUsage(ctx)
	return updated, nil
}

// List returns the saved articles.
func (s *Service) List(ctx context.Context) ([]article.Article, error) {
	list, err := s.backend.ListArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return list, nil
}

// Get returns one saved article.
func (s *Service) Get(ctx context.Context, id string) (article.Article, error) {
	a, err := s.backend.GetArticle(ctx, id)
	if err != nil {
		return article.Article{}, fmt.Errorf("get article %s: %w", id, err)
	}
	return a, nil
}

// Save creates the article when it has no id and updates it otherwise.
func (s *Service) Save(ctx context.Context, a article.Article) (article.Article, error) {
	if a.ID == "" {
		saved, err := s.backend.CreateArticle(ctx, backend.InputOf(a))
		if err != nil {
			return article.Article{}, fmt.Errorf("create article: %w", err)
		}
		a.ID = saved.ID
		return a, nil
	}
	if err := s.backend.UpdateArticle(ctx, a.ID, backend.InputOf(a)); err != nil {
		return article.Article{}, fmt.Errorf("update article %s: %w", a.ID, err)
	}
	return a, nil
}

// Delete removes a saved article.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteArticle(ctx, id); err != nil {
		return fmt.Errorf("delete article %s: %w", id, err)
	}
	return nil
}
