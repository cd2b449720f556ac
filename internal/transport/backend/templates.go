package backend

import (
	"context"
	"encoding/json"
	"net/http"
)

// Template is a reusable article outline.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

// TemplateRequest is the body of POST /templates/generate.
type TemplateRequest struct {
	TemplateID string `json:"template_id"`
	Topic      string `json:"topic"`
	Region     string `json:"region,omitempty"`
}

// ListTemplates returns the available templates.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/templates"})
	if err != nil {
		return nil, err
	}
	var list []Template
	if err := resp.Decode(&list); err == nil {
		return list, nil
	}
	var wrapped struct {
		Templates []Template `json:"templates"`
	}
	if err := resp.Decode(&wrapped); err != nil {
		return nil, err
	}
	return wrapped.Templates, nil
}

// GenerateFromTemplate fills a template for a topic.
func (c *Client) GenerateFromTemplate(ctx context.Context, req TemplateRequest) (json.RawMessage, error) {
	var out json.RawMessage
	err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: "/templates/generate", Body: req}, &out)
	return out, err
}
