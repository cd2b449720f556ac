package seoscribe

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
)

// --- sessionUseCase mock ---

type mockSessionUC struct {
	captureFn func(ctx context.Context, u *url.URL) (*url.URL, bool)
	current   domsession.Session
	cleared   bool
	memOnly   bool
}

func (m *mockSessionUC) CaptureFromURL(ctx context.Context, u *url.URL) (*url.URL, bool) {
	return m.captureFn(ctx, u)
}

func (m *mockSessionUC) Tokens(_ context.Context) domsession.Session { return m.current }

func (m *mockSessionUC) SetTokens(_ context.Context, s domsession.Session) { m.current = s }

func (m *mockSessionUC) ClearTokens(_ context.Context) {
	m.current = domsession.Session{}
	m.cleared = true
}

func (m *mockSessionUC) SignedIn(_ context.Context) bool { return !m.current.IsZero() }

func (m *mockSessionUC) MemoryOnly() bool { return m.memOnly }

// --- quotaUseCase mock ---

type mockQuotaUC struct {
	status    quotauc.Status
	inits     int
	refreshes int
	forgets   int
}

func (m *mockQuotaUC) Init(_ context.Context)         { m.inits++ }
func (m *mockQuotaUC) RefreshUsage(_ context.Context) { m.refreshes++ }
func (m *mockQuotaUC) Forget(_ context.Context)       { m.forgets++ }
func (m *mockQuotaUC) Status() quotauc.Status         { return m.status }

// --- articleUseCase mock ---

type mockArticleUC struct {
	generateFn func(ctx context.Context, req backend.DraftRequest) (article.Article, error)
	expandFn   func(ctx context.Context, in articleuc.ExpandInput) (article.Article, error)
	listFn     func(ctx context.Context) ([]article.Article, error)
	getFn      func(ctx context.Context, id string) (article.Article, error)
	saveFn     func(ctx context.Context, a article.Article) (article.Article, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockArticleUC) Generate(ctx context.Context, req backend.DraftRequest) (article.Article, error) {
	return m.generateFn(ctx, req)
}

func (m *mockArticleUC) Expand(ctx context.Context, in articleuc.ExpandInput) (article.Article, error) {
	return m.expandFn(ctx, in)
}

func (m *mockArticleUC) List(ctx context.Context) ([]article.Article, error) {
	return m.listFn(ctx)
}

func (m *mockArticleUC) Get(ctx context.Context, id string) (article.Article, error) {
	return m.getFn(ctx, id)
}

func (m *mockArticleUC) Save(ctx context.Context, a article.Article) (article.Article, error) {
	return m.saveFn(ctx, a)
}

func (m *mockArticleUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- toolUseCase mock ---

type mockToolUC struct {
	runFn func(ctx context.Context, name backend.Tool, payload any) (json.RawMessage, error)
}

func (m *mockToolUC) Run(ctx context.Context, name backend.Tool, payload any) (json.RawMessage, error) {
	return m.runFn(ctx, name, payload)
}

// --- backendAPI mock ---

type mockBackend struct {
	magicLinkFn    func(ctx context.Context, email, redirect string) (string, error)
	templatesFn    func(ctx context.Context) ([]backend.Template, error)
	fromTemplateFn func(ctx context.Context, req backend.TemplateRequest) (json.RawMessage, error)
	assistantFn    func(ctx context.Context, payload any) (json.RawMessage, error)
	checkoutFn     func(ctx context.Context, successURL, cancelURL string) (string, error)
	portalFn       func(ctx context.Context, returnURL string) (string, error)
}

func (m *mockBackend) SendMagicLink(ctx context.Context, email, redirect string) (string, error) {
	return m.magicLinkFn(ctx, email, redirect)
}

func (m *mockBackend) GoogleAuthURL(redirect string) string {
	return "https://app.example.com/auth/google?redirect=" + url.QueryEscape(redirect)
}

func (m *mockBackend) ListTemplates(ctx context.Context) ([]backend.Template, error) {
	return m.templatesFn(ctx)
}

func (m *mockBackend) GenerateFromTemplate(
	ctx context.Context, req backend.TemplateRequest,
) (json.RawMessage, error) {
	return m.fromTemplateFn(ctx, req)
}

func (m *mockBackend) Assistant(ctx context.Context, payload any) (json.RawMessage, error) {
	return m.assistantFn(ctx, payload)
}

func (m *mockBackend) CreateCheckout(ctx context.Context, successURL, cancelURL string) (string, error) {
	return m.checkoutFn(ctx, successURL, cancelURL)
}

func (m *mockBackend) BillingPortal(ctx context.Context, returnURL string) (string, error) {
	return m.portalFn(ctx, returnURL)
}
