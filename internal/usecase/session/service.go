// Package session keeps the bearer credential that authenticates every backend call.
package session

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/zap"

	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	logpkg "github.com/kailas-cloud/seoscribe/internal/logger"
	reposession "github.com/kailas-cloud/seoscribe/internal/repository/session"
)

// Redirect query parameters carrying the credential after sign-in.
const (
	ParamAccessToken  = "access_token"
	ParamRefreshToken = "refresh_token"
	ParamType         = "type"
)

// Service is the token store. Storage is read through on every access so a
// session written by another process is picked up; when storage fails the
// service keeps the session in memory for the rest of the process lifetime.
type Service struct {
	repo   Repository
	logger *zap.Logger

	mu         sync.Mutex
	current    domsession.Session
	memoryOnly bool
}

// New creates a Service. repo can be nil (memory only).
func New(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, memoryOnly: repo == nil}
}

// CaptureFromURL stores the credential carried by a post-sign-in redirect and
// returns the URL with the credential parameters removed. Without an access
// token the URL is returned unchanged and nothing is stored.
func (s *Service) CaptureFromURL(ctx context.Context, u *url.URL) (*url.URL, bool) {
	if u == nil {
		return nil, false
	}
	q := u.Query()
	access := q.Get(ParamAccessToken)
	if access == "" {
		return u, false
	}

	s.SetTokens(ctx, domsession.Session{
		AccessToken:  access,
		RefreshToken: q.Get(ParamRefreshToken),
		TokenType:    q.Get(ParamType),
	})

	s.logger.Debug("session captured from redirect",
		logpkg.Secret("access_token", access),
		zap.String("type", q.Get(ParamType)),
	)

	q.Del(ParamAccessToken)
	q.Del(ParamRefreshToken)
	q.Del(ParamType)

	cleaned := *u
	cleaned.RawQuery = q.Encode()
	return &cleaned, true
}

// Tokens returns the stored session, or an empty one when nothing usable is stored.
func (s *Service) Tokens(ctx context.Context) domsession.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memoryOnly {
		return s.current
	}

	sess, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.current = sess
	case errors.Is(err, reposession.ErrCorrupt):
		s.logger.Debug("stored session is unreadable, treating as signed out", zap.Error(err))
		s.current = domsession.Session{}
	default:
		s.fallback(err)
	}
	return s.current
}

// SetTokens replaces the stored session.
func (s *Service) SetTokens(ctx context.Context, sess domsession.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = sess
	if s.memoryOnly {
		return
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		s.fallback(err)
	}
}

// ClearTokens removes the stored session.
func (s *Service) ClearTokens(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = domsession.Session{}
	if s.memoryOnly {
		return
	}
	if err := s.repo.Delete(ctx); err != nil {
		s.fallback(err)
	}
}

// SignedIn reports whether an access token is present.
func (s *Service) SignedIn(ctx context.Context) bool {
	return s.Tokens(ctx).AccessToken != ""
}

// MemoryOnly reports whether durable storage has been given up on.
func (s *Service) MemoryOnly() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryOnly
}

// AuthorizationHeader returns a copy of extra with a JSON content type
// defaulted and the bearer credential attached when one is stored.
func (s *Service) AuthorizationHeader(ctx context.Context, extra http.Header) http.Header {
	h := extra.Clone()
	if h == nil {
		h = http.Header{}
	}
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", "application/json")
	}
	if tok := s.Tokens(ctx).AccessToken; tok != "" {
		h.Set("Authorization", "Bearer "+tok)
	}
	return h
}

// fallback switches to memory-only mode. Caller holds mu.
func (s *Service) fallback(err error) {
	if s.memoryOnly {
		return
	}
	s.memoryOnly = true
	s.logger.Warn("session storage unavailable, keeping session in memory", zap.Error(err))
}
