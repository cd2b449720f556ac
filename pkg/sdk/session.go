package seoscribe

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// SessionService manages the stored credential.
type SessionService struct {
	svc sessionUseCase
	obs *observer
}

// CaptureURL stores the credential carried by a post-sign-in redirect URL
// and returns the URL with access_token, refresh_token and type removed.
// A URL without an access token is returned unchanged with captured false.
func (s *SessionService) CaptureURL(
	ctx context.Context, rawURL string,
) (_ string, captured bool, err error) {
	start := time.Now()
	defer func() { s.obs.observe("session.capture", start, err) }()

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false, fmt.Errorf("capture session: %w", err)
	}
	cleaned, captured := s.svc.CaptureFromURL(ctx, u)
	return cleaned.String(), captured, nil
}

// Tokens returns the stored session, or the zero Session when signed out.
func (s *SessionService) Tokens(ctx context.Context) Session {
	return fromInternalSession(s.svc.Tokens(ctx))
}

// Set replaces the stored session.
func (s *SessionService) Set(ctx context.Context, sess Session) {
	s.svc.SetTokens(ctx, toInternalSession(sess))
}

// Clear removes the stored session.
func (s *SessionService) Clear(ctx context.Context) {
	s.svc.ClearTokens(ctx)
}

// SignedIn reports whether an access token is held.
func (s *SessionService) SignedIn(ctx context.Context) bool {
	return s.svc.SignedIn(ctx)
}

// Claims decodes the access token for display. The token is not verified.
func (s *SessionService) Claims(ctx context.Context) Claims {
	c := s.svc.Tokens(ctx).Claims()
	return Claims{Subject: c.Subject, Email: c.Email}
}

// Persistent reports whether the session survives a restart. It turns false
// for good once local storage has failed.
func (s *SessionService) Persistent() bool {
	return !s.svc.MemoryOnly()
}
