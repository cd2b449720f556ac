// Package chi is the local app shell: it hosts the sign-in callback, serves the
// quota badge, and fronts generation and tool calls with the quota check.
package chi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	"github.com/kailas-cloud/seoscribe/internal/logger"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
	healthuc "github.com/kailas-cloud/seoscribe/internal/usecase/health"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
	sessionuc "github.com/kailas-cloud/seoscribe/internal/usecase/session"
	tooluc "github.com/kailas-cloud/seoscribe/internal/usecase/tool"
)

const (
	callbackPath  = "/auth/callback"
	dashboardPath = "/dashboard"
	maxBodyBytes  = 4 << 20
)

// Server handles app shell requests.
type Server struct {
	session       *sessionuc.Service
	quota         *quotauc.Service
	articles      *articleuc.Service
	tools         *tooluc.Service
	backend       *backend.Client
	health        *healthuc.Service
	publicURL     string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// Deps bundles the services the Server fronts.
type Deps struct {
	Session  *sessionuc.Service
	Quota    *quotauc.Service
	Articles *articleuc.Service
	Tools    *tooluc.Service
	Backend  *backend.Client
	Health   *healthuc.Service
}

// NewServer creates the app shell server. publicURL is the shell's own
// address as the browser sees it.
func NewServer(d Deps, publicURL string, l *zap.Logger) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{
		session:       d.Session,
		quota:         d.Quota,
		articles:      d.Articles,
		tools:         d.Tools,
		backend:       d.Backend,
		health:        d.Health,
		publicURL:     strings.TrimRight(publicURL, "/"),
		logger:        l,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes mounts the shell's handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)

	r.Route("/auth", func(r chi.Router) {
		r.Get("/callback", s.AuthCallback)
		r.Post("/magic-link", s.MagicLink)
		r.Get("/google", s.GoogleSignIn)
		r.Post("/signout", s.SignOut)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/session", s.GetSession)
		r.Get("/quota", s.GetQuota)
		r.Post("/generate", s.Generate)
		r.Post("/tools/{tool}", s.RunTool)
		r.Post("/articles/{id}/expand", s.ExpandArticle)
		r.Get("/templates", s.ListTemplates)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(s.session))
			r.Get("/articles", s.ListArticles)
			r.Post("/articles", s.CreateArticle)
			r.Get("/articles/{id}", s.GetArticle)
			r.Put("/articles/{id}", s.UpdateArticle)
			r.Delete("/articles/{id}", s.DeleteArticle)
			r.Post("/assistant", s.Assistant)
			r.Post("/templates/generate", s.GenerateFromTemplate)
			r.Post("/billing/checkout", s.Checkout)
			r.Post("/billing/portal", s.BillingPortal)
		})
	})
}

// AuthCallback handles GET /auth/callback, the landing page of every sign-in flow.
func (s *Server) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if e := r.URL.Query().Get("error"); e != "" {
		http.Redirect(w, r, "/?error="+url.QueryEscape(e), http.StatusFound)
		return
	}

	if _, ok := s.session.CaptureFromURL(r.Context(), r.URL); !ok {
		http.Redirect(w, r, "/?error=no_token", http.StatusFound)
		return
	}

	s.quota.RefreshUsage(r.Context())
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

type magicLinkRequest struct {
	Email string `json:"email"`
}

// MagicLink handles POST /auth/magic-link.
func (s *Server) MagicLink(w http.ResponseWriter, r *http.Request) {
	var req magicLinkRequest
	if !s.decode(w, r, &req) {
		return
	}

	msg, err := s.backend.SendMagicLink(r.Context(), strings.TrimSpace(req.Email), s.publicURL+callbackPath)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if msg == "" {
		msg = "Check your email for a sign-in link"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// GoogleSignIn handles GET /auth/google.
func (s *Server) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.backend.GoogleAuthURL(s.publicURL+callbackPath), http.StatusFound)
}

// SignOut handles POST /auth/signout.
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	s.session.ClearTokens(r.Context())
	s.quota.Forget(r.Context())
	s.quota.Init(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /api/session.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	st := s.quota.Status()
	writeJSON(w, http.StatusOK, newSessionResponse(s.session.Tokens(r.Context()), st.Email, st.Plan.String()))
}

// GetQuota handles GET /api/quota.
func (s *Server) GetQuota(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.quota.Status())
}

// Generate handles POST /api/generate.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var req backend.DraftRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "topic is required")
		return
	}

	a, err := s.articles.Generate(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type expandRequest struct {
	Keyword    string `json:"keyword"`
	WebsiteURL string `json:"website_url"`
}

// ExpandArticle handles POST /api/articles/{id}/expand.
func (s *Server) ExpandArticle(w http.ResponseWriter, r *http.Request) {
	var req expandRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}

	a, err := s.articles.Expand(r.Context(), articleuc.ExpandInput{
		ID:         chi.URLParam(r, "id"),
		Keyword:    req.Keyword,
		WebsiteURL: req.WebsiteURL,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ListArticles handles GET /api/articles.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	list, err := s.articles.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []article.Article{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

// CreateArticle handles POST /api/articles.
func (s *Server) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var a article.Article
	if !s.decode(w, r, &a) {
		return
	}
	a.ID = ""

	saved, err := s.articles.Save(r.Context(), a)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/articles/"+url.PathEscape(saved.ID))
	writeJSON(w, http.StatusCreated, saved)
}

// GetArticle handles GET /api/articles/{id}.
func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.articles.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateArticle handles PUT /api/articles/{id}.
func (s *Server) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var a article.Article
	if !s.decode(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")

	saved, err := s.articles.Save(r.Context(), a)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteArticle handles DELETE /api/articles/{id}.
func (s *Server) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunTool handles POST /api/tools/{tool}. The body is forwarded as is.
func (s *Server) RunTool(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.rawBody(w, r)
	if !ok {
		return
	}

	out, err := s.tools.Run(r.Context(), backend.Tool(chi.URLParam(r, "tool")), payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, out)
}

// Assistant handles POST /api/assistant.
func (s *Server) Assistant(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.rawBody(w, r)
	if !ok {
		return
	}

	out, err := s.backend.Assistant(r.Context(), payload)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, out)
}

// ListTemplates handles GET /api/templates.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.backend.ListTemplates(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if list == nil {
		list = []backend.Template{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list})
}

// GenerateFromTemplate handles POST /api/templates/generate.
func (s *Server) GenerateFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req backend.TemplateRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.TemplateID == "" || strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "template_id and topic are required")
		return
	}

	out, err := s.backend.GenerateFromTemplate(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeRaw(w, http.StatusOK, out)
}

type checkoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// Checkout handles POST /api/billing/checkout.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	if req.SuccessURL == "" {
		req.SuccessURL = s.publicURL + dashboardPath + "?upgraded=true"
	}
	if req.CancelURL == "" {
		req.CancelURL = s.publicURL + "/pricing"
	}

	u, err := s.backend.CreateCheckout(r.Context(), req.SuccessURL, req.CancelURL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}

type portalRequest struct {
	ReturnURL string `json:"return_url"`
}

// BillingPortal handles POST /api/billing/portal.
func (s *Server) BillingPortal(w http.ResponseWriter, r *http.Request) {
	var req portalRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	if req.ReturnURL == "" {
		req.ReturnURL = s.publicURL + dashboardPath
	}

	u, err := s.backend.BillingPortal(r.Context(), req.ReturnURL)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": u})
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// rawBody reads a JSON body to forward verbatim. An empty body yields nil.
func (s *Server) rawBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, true
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: not JSON")
		return nil, false
	}
	return json.RawMessage(body), true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	if len(body) == 0 {
		body = json.RawMessage("null")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
