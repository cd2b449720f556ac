package seoscribe

import (
	"context"
	"fmt"
	"time"
)

// AuthService starts sign-in flows and signs out.
type AuthService struct {
	backend backendAPI
	session sessionUseCase
	quota   quotaUseCase
	obs     *observer
}

// SendMagicLink mails a sign-in link that lands on redirect with the
// credential in its query string; pass that URL to Session().CaptureURL.
// Returns the backend's confirmation message.
func (s *AuthService) SendMagicLink(
	ctx context.Context, email, redirect string,
) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("auth.magic_link", start, err) }()

	msg, err := s.backend.SendMagicLink(ctx, email, redirect)
	if err != nil {
		return "", fmt.Errorf("send magic link: %w", err)
	}
	return msg, nil
}

// GoogleURL is where a browser goes to start Google sign-in.
func (s *AuthService) GoogleURL(redirect string) string {
	return s.backend.GoogleAuthURL(redirect)
}

// SignOut drops the credential and the cached usage, then reloads the
// quota mirror as a signed-out user.
func (s *AuthService) SignOut(ctx context.Context) {
	start := time.Now()
	defer func() { s.obs.observe("auth.signout", start, nil) }()

	s.session.ClearTokens(ctx)
	s.quota.Forget(ctx)
	s.quota.Init(ctx)
	s.obs.quota(fromInternalStatus(s.quota.Status()))
}

// BillingService opens the hosted checkout and customer portal.
type BillingService struct {
	backend backendAPI
	obs     *observer
}

// Checkout returns the URL of a checkout session for the pro plan.
func (s *BillingService) Checkout(
	ctx context.Context, successURL, cancelURL string,
) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("billing.checkout", start, err) }()

	u, err := s.backend.CreateCheckout(ctx, successURL, cancelURL)
	if err != nil {
		return "", fmt.Errorf("create checkout: %w", err)
	}
	return u, nil
}

// Portal returns the URL of the customer billing portal.
func (s *BillingService) Portal(ctx context.Context, returnURL string) (_ string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("billing.portal", start, err) }()

	u, err := s.backend.BillingPortal(ctx, returnURL)
	if err != nil {
		return "", fmt.Errorf("billing portal: %w", err)
	}
	return u, nil
}
