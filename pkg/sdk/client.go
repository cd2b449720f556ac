package seoscribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/seoscribe/internal/db"
	dbMemory "github.com/kailas-cloud/seoscribe/internal/db/memory"
	dbRedis "github.com/kailas-cloud/seoscribe/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/seoscribe/internal/db/sqlite"
	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	sessionrepo "github.com/kailas-cloud/seoscribe/internal/repository/session"
	usagerepo "github.com/kailas-cloud/seoscribe/internal/repository/usage"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
	healthuc "github.com/kailas-cloud/seoscribe/internal/usecase/health"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
	sessionuc "github.com/kailas-cloud/seoscribe/internal/usecase/session"
	tooluc "github.com/kailas-cloud/seoscribe/internal/usecase/tool"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultTimeout          = 150 * time.Second
	defaultKeyPrefix        = domain.KeyPrefix
)

// Internal interfaces, swapped for mocks in tests.
type sessionUseCase interface {
	CaptureFromURL(ctx context.Context, u *url.URL) (*url.URL, bool)
	Tokens(ctx context.Context) domsession.Session
	SetTokens(ctx context.Context, s domsession.Session)
	ClearTokens(ctx context.Context)
	SignedIn(ctx context.Context) bool
	MemoryOnly() bool
}

type quotaUseCase interface {
	Init(ctx context.Context)
	RefreshUsage(ctx context.Context)
	Forget(ctx context.Context)
	Status() quotauc.Status
}

type articleUseCase interface {
	Generate(ctx context.Context, req backend.DraftRequest) (article.Article, error)
	Expand(ctx context.Context, in articleuc.ExpandInput) (article.Article, error)
	List(ctx context.Context) ([]article.Article, error)
	Get(ctx context.Context, id string) (article.Article, error)
	Save(ctx context.Context, a article.Article) (article.Article, error)
	Delete(ctx context.Context, id string) error
}

type toolUseCase interface {
	Run(ctx context.Context, name backend.Tool, payload any) (json.RawMessage, error)
}

type backendAPI interface {
	SendMagicLink(ctx context.Context, email, redirect string) (string, error)
	GoogleAuthURL(redirect string) string
	ListTemplates(ctx context.Context) ([]backend.Template, error)
	GenerateFromTemplate(ctx context.Context, req backend.TemplateRequest) (json.RawMessage, error)
	Assistant(ctx context.Context, payload any) (json.RawMessage, error)
	CreateCheckout(ctx context.Context, successURL, cancelURL string) (string, error)
	BillingPortal(ctx context.Context, returnURL string) (string, error)
}

// Client is the seoscribe SDK entry point.
type Client struct {
	store      db.Store
	sessionSvc sessionUseCase
	quotaSvc   quotaUseCase
	articleSvc articleUseCase
	toolSvc    toolUseCase
	backend    backendAPI
	healthSvc  healthUseCase
	obs        *observer
}

// New creates a Client, opens local storage and loads the quota mirror.
// The provided context bounds the storage readiness check and the initial
// profile fetch; a failed fetch leaves the quota degraded, not New.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		driver:    "memory",
		timeout:   defaultTimeout,
		keyPrefix: defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	c.quotaSvc.Init(ctx)
	c.obs.quota(c.Quota().Status())
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "sqlite":
		s, err := dbSQLite.Open(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("seoscribe: open sqlite store: %w", err)
		}
		return s, nil
	case "redis":
		if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
			return nil, errors.New("seoscribe: redis address required")
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("seoscribe: create redis store: %w", err)
		}
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			s.Close()
			return nil, fmt.Errorf("seoscribe: redis not ready: %w", err)
		}
		return s, nil
	case "memory":
		return dbMemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("seoscribe: unknown storage driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	// Internal packages log through zap; the SDK reports through its observer.
	logger := zap.NewNop()

	sessionSvc := sessionuc.New(sessionrepo.New(store, cfg.keyPrefix), logger)

	bc, err := backend.New(backend.Config{
		Origin:     cfg.origin,
		APIBase:    cfg.apiBase,
		AuthBase:   cfg.authBase,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.client,
		Headers:    sessionSvc,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("seoscribe: backend (use WithOrigin): %w", err)
	}

	quotaSvc := quotauc.New(bc, usagerepo.New(store, cfg.keyPrefix), logger)

	return &Client{
		store:      store,
		sessionSvc: sessionSvc,
		quotaSvc:   quotaSvc,
		articleSvc: articleuc.New(bc, quotaSvc, sessionSvc),
		toolSvc:    tooluc.New(bc, quotaSvc),
		backend:    bc,
		healthSvc:  healthuc.New(store, sessionSvc, quotaSvc),
		obs:        obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks local storage connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Session returns the credential store.
func (c *Client) Session() *SessionService {
	return &SessionService{svc: c.sessionSvc, obs: c.obs}
}

// Quota returns the quota mirror.
func (c *Client) Quota() *QuotaService {
	return &QuotaService{svc: c.quotaSvc, obs: c.obs}
}

// Articles returns the article service.
func (c *Client) Articles() *ArticleService {
	return &ArticleService{svc: c.articleSvc, backend: c.backend, quota: c.quotaSvc, obs: c.obs}
}

// Tools returns the SEO tool service.
func (c *Client) Tools() *ToolService {
	return &ToolService{svc: c.toolSvc, quota: c.quotaSvc, obs: c.obs}
}

// Auth returns sign-in and sign-out helpers.
func (c *Client) Auth() *AuthService {
	return &AuthService{
		backend: c.backend,
		session: c.sessionSvc,
		quota:   c.quotaSvc,
		obs:     c.obs,
	}
}

// Billing returns the subscription checkout helpers.
func (c *Client) Billing() *BillingService {
	return &BillingService{backend: c.backend, obs: c.obs}
}
