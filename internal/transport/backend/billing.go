package backend

import (
	"context"
	"errors"
	"net/http"
)

type redirectURL struct {
	URL string `json:"url"`
}

// CreateCheckout starts a checkout session and returns the URL to send the user to.
func (c *Client) CreateCheckout(ctx context.Context, successURL, cancelURL string) (string, error) {
	body := map[string]string{"successUrl": successURL, "cancelUrl": cancelURL}
	return c.redirect(ctx, "/stripe/create-checkout", body)
}

// BillingPortal returns the URL of the subscription management portal.
func (c *Client) BillingPortal(ctx context.Context, returnURL string) (string, error) {
	return c.redirect(ctx, "/stripe/portal", map[string]string{"returnUrl": returnURL})
}

func (c *Client) redirect(ctx context.Context, path string, body any) (string, error) {
	var out redirectURL
	if err := c.doJSON(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, &out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", errors.New(path + ": response has no url")
	}
	return out.URL, nil
}
