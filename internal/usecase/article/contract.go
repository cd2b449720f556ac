package article

import (
	"context"

	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// Backend is the subset of the backend client used for articles.
type Backend interface {
	Draft(ctx context.Context, req backend.DraftRequest) (article.Article, error)
	Expand(ctx context.Context, req backend.ExpandRequest) (article.Article, error)
	ListArticles(ctx context.Context) ([]article.Article, error)
	GetArticle(ctx context.Context, id string) (article.Article, error)
	CreateArticle(ctx context.Context, in backend.ArticleInput) (article.Article, error)
	UpdateArticle(ctx context.Context, id string, in backend.ArticleInput) error
	DeleteArticle(ctx context.Context, id string) error
}

// Quota gates generations and reconciles usage after them.
type Quota interface {
	CanGenerate() bool
	MaxExpansions() int
	NoteGeneration()
	RefreshUsage(ctx context.Context)
}

// Session reports whether a user is signed in.
type Session interface {
	SignedIn(ctx context.Context) bool
}
