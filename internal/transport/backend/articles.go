package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/seoscribe/internal/domain/article"
)

// ArticleInput is the body for creating or updating a saved article.
type ArticleInput struct {
	Title              string          `json:"title"`
	Data               json.RawMessage `json:"data"`
	WordCount          int             `json:"word_count,omitempty"`
	ReadingTimeMinutes int             `json:"reading_time_minutes,omitempty"`
	ExpansionCount     int             `json:"expansion_count"`
}

// InputOf builds the save body for an article.
func InputOf(a article.Article) ArticleInput {
	return ArticleInput{
		Title:              a.Title,
		Data:               a.Data,
		WordCount:          a.WordCount,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
		ExpansionCount:     a.ExpansionCount,
	}
}

// ListArticles returns the user's saved articles. The backend answers with
// either a bare array or {"articles": [...]}.
func (c *Client) ListArticles(ctx context.Context) ([]article.Article, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/articles"})
	if err != nil {
		return nil, err
	}

	var list []article.Article
	if err := resp.Decode(&list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Articles []article.Article `json:"articles"`
	}
	if err := resp.Decode(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Articles, nil
}

// GetArticle fetches one saved article.
func (c *Client) GetArticle(ctx context.Context, id string) (article.Article, error) {
	var a article.Article
	err := c.doJSON(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/articles/" + url.PathEscape(id),
		Endpoint: "/articles/{id}",
	}, &a)
	return a, err
}

// CreateArticle saves a new article and returns it with its assigned id.
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (article.Article, error) {
	var a article.Article
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/articles", Body: in}, &a)
	return a, err
}

// UpdateArticle replaces a saved article.
func (c *Client) UpdateArticle(ctx context.Context, id string, in ArticleInput) error {
	_, err := c.Do(ctx, Request{
		Method:   http.MethodPut,
		Path:     "/articles/" + url.PathEscape(id),
		Body:     in,
		Endpoint: "/articles/{id}",
	})
	return err
}

// DeleteArticle removes a saved article.
func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	_, err := c.Do(ctx, Request{
		Method:   http.MethodDelete,
		Path:     "/articles/" + url.PathEscape(id),
		Endpoint: "/articles/{id}",
	})
	return err
}
