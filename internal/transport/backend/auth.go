package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/seoscribe/internal/domain"
)

type magicLinkRequest struct {
	Email    types.Email `json:"email"`
	Redirect string      `json:"redirect"`
}

type magicLinkResponse struct {
	Message string `json:"message"`
}

// SendMagicLink asks the auth service to mail a sign-in link that lands on redirect.
func (c *Client) SendMagicLink(ctx context.Context, email, redirect string) (string, error) {
	addr := types.Email(email)
	// MarshalJSON validates the address.
	if _, err := addr.MarshalJSON(); err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}

	var out magicLinkResponse
	resp, err := c.DoAuth(ctx, Request{
		Method: http.MethodPost,
		Path:   "/magic-link",
		Body:   magicLinkRequest{Email: addr, Redirect: redirect},
	})
	if err != nil {
		return "", err
	}
	if resp.JSON {
		if err := resp.Decode(&out); err != nil {
			return "", err
		}
		return out.Message, nil
	}
	return resp.Text(), nil
}

// GoogleAuthURL is where the browser goes to start Google sign-in.
func (c *Client) GoogleAuthURL(redirect string) string {
	return c.authBase + "/google?redirect=" + url.QueryEscape(redirect)
}
