package chi

import (
	"context"
	"net/http"
	"net/url"

	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	sessionuc "github.com/kailas-cloud/seoscribe/internal/usecase/session"
)

// tokenSink stores credentials found in redirect URLs.
type tokenSink interface {
	CaptureFromURL(ctx context.Context, u *url.URL) (*url.URL, bool)
}

// signedIn reports whether a session is present.
type signedIn interface {
	SignedIn(ctx context.Context) bool
}

// CaptureTokens stores a credential arriving in the query string of any GET
// request and redirects to the same URL without it, so the token does not
// stay in the address bar or browser history.
func CaptureTokens(sink tokenSink) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path == callbackPath ||
				r.URL.Query().Get(sessionuc.ParamAccessToken) == "" {
				next.ServeHTTP(w, r)
				return
			}

			cleaned, ok := sink.CaptureFromURL(r.Context(), r.URL)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, cleaned.RequestURI(), http.StatusFound)
		})
	}
}

// RequireSession rejects requests made without a stored session.
func RequireSession(s signedIn) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.SignedIn(r.Context()) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "sign in required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sessionResponse is the body of GET /api/session.
type sessionResponse struct {
	SignedIn bool   `json:"signed_in"`
	Email    string `json:"email,omitempty"`
	Subject  string `json:"subject,omitempty"`
	Plan     string `json:"plan"`
}

func newSessionResponse(sess domsession.Session, quotaEmail, plan string) sessionResponse {
	resp := sessionResponse{SignedIn: sess.AccessToken != "", Plan: plan}
	if !resp.SignedIn {
		return resp
	}
	claims := sess.Claims()
	resp.Subject = claims.Subject
	resp.Email = claims.Email
	if resp.Email == "" {
		resp.Email = quotaEmail
	}
	return resp
}
