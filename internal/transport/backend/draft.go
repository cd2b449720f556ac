package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kailas-cloud/seoscribe/internal/domain/article"
)

// DraftRequest is the body of POST /draft.
type DraftRequest struct {
	Topic           string `json:"topic"`
	TargetWordCount int    `json:"target_word_count,omitempty"`
	GenerateSocial  bool   `json:"generate_social"`
	Region          string `json:"region,omitempty"`
	Save            bool   `json:"save"`
	WebsiteURL      string `json:"website_url,omitempty"`
	Tone            string `json:"tone,omitempty"`
}

// ExpandRequest is the body of POST /expand.
type ExpandRequest struct {
	ArticleJSON json.RawMessage `json:"article_json"`
	ArticleID   string          `json:"article_id,omitempty"`
	Keyword     string          `json:"keyword,omitempty"`
	WebsiteURL  string          `json:"website_url,omitempty"`
}

// Draft generates a new article.
func (c *Client) Draft(ctx context.Context, req DraftRequest) (article.Article, error) {
	var a article.Article
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/draft", Body: req}, &a)
	return a, err
}

// Expand lengthens an existing article. The result carries the new word count.
func (c *Client) Expand(ctx context.Context, req ExpandRequest) (article.Article, error) {
	var a article.Article
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/expand", Body: req}, &a)
	return a, err
}

// Assistant forwards a payload to the AI assistant and returns its raw answer.
func (c *Client) Assistant(ctx context.Context, payload any) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/ai-assistant", Body: payload}, &out)
	return out, err
}
