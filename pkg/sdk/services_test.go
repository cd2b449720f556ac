package seoscribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/oapi-codegen/runtime/types"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/domain/article"
	"github.com/kailas-cloud/seoscribe/internal/domain/plan"
	domsession "github.com/kailas-cloud/seoscribe/internal/domain/session"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
	articleuc "github.com/kailas-cloud/seoscribe/internal/usecase/article"
	quotauc "github.com/kailas-cloud/seoscribe/internal/usecase/quota"
)

// --- SessionService ---

func TestSessionService_CaptureURL(t *testing.T) {
	mock := &mockSessionUC{
		captureFn: func(_ context.Context, u *url.URL) (*url.URL, bool) {
			if got := u.Query().Get("access_token"); got != "tok" {
				t.Errorf("access_token = %q, want tok", got)
			}
			cleaned := *u
			cleaned.RawQuery = "tab=library"
			return &cleaned, true
		},
	}

	svc := &SessionService{svc: mock}
	cleaned, captured, err := svc.CaptureURL(context.Background(),
		"http://localhost:8080/dashboard?access_token=tok&tab=library")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !captured {
		t.Error("captured = false, want true")
	}
	if cleaned != "http://localhost:8080/dashboard?tab=library" {
		t.Errorf("cleaned = %q", cleaned)
	}
}

func TestSessionService_CaptureURL_Invalid(t *testing.T) {
	svc := &SessionService{svc: &mockSessionUC{}}
	_, _, err := svc.CaptureURL(context.Background(), "http://[::1")
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSessionService_RoundTrip(t *testing.T) {
	mock := &mockSessionUC{memOnly: true}
	svc := &SessionService{svc: mock}
	ctx := context.Background()

	if svc.SignedIn(ctx) {
		t.Fatal("signed in before Set")
	}
	svc.Set(ctx, Session{AccessToken: "a", RefreshToken: "r", TokenType: "magiclink"})
	if !svc.SignedIn(ctx) {
		t.Fatal("not signed in after Set")
	}
	got := svc.Tokens(ctx)
	if got.RefreshToken != "r" || got.TokenType != "magiclink" {
		t.Errorf("Tokens = %+v", got)
	}
	if svc.Persistent() {
		t.Error("Persistent = true for a memory-only store")
	}

	svc.Clear(ctx)
	if svc.SignedIn(ctx) || !mock.cleared {
		t.Error("session not cleared")
	}
}

func TestSessionService_Claims_OpaqueToken(t *testing.T) {
	mock := &mockSessionUC{current: domsession.Session{AccessToken: "not-a-jwt"}}
	svc := &SessionService{svc: mock}
	if c := svc.Claims(context.Background()); c != (Claims{}) {
		t.Errorf("Claims = %+v, want empty", c)
	}
}

// --- QuotaService ---

func TestQuotaService_Status(t *testing.T) {
	mock := &mockQuotaUC{status: quotauc.Status{
		State: quotauc.Authoritative,
		Plan:  plan.Pro,
		Email: "me@example.com",
		Date:  types.Date{Time: mustDate(t, "2026-10-19")},
		Usage: usage.Counters{
			Today: usage.Today{Generations: 3, Tools: 2},
			Month: usage.Month{Generations: 40},
		},
		DayLimit:       15,
		DayRemaining:   12,
		MonthLimit:     9999,
		MonthRemaining: 9959,
		CanGenerate:    true,
		ToolLimit:      10,
		ToolRemaining:  8,
		CanUseTool:     true,
		MaxExpansions:  6,
	}}

	svc := &QuotaService{svc: mock}
	st := svc.Status()
	if st.State != QuotaAuthoritative || st.Plan != PlanPro {
		t.Errorf("state/plan = %s/%s", st.State, st.Plan)
	}
	if st.GenerationsToday != 3 || st.GenerationsMonth != 40 || st.ToolsToday != 2 {
		t.Errorf("counters = %+v", st)
	}
	if st.Date.Format("2006-01-02") != "2026-10-19" {
		t.Errorf("Date = %v", st.Date)
	}
	if !svc.CanGenerate() || !svc.CanUseTool() {
		t.Error("expected room for generations and tools")
	}
}

func TestQuotaService_Refresh(t *testing.T) {
	mock := &mockQuotaUC{status: quotauc.Status{State: quotauc.Degraded, Plan: plan.Free}}
	svc := &QuotaService{svc: mock}

	st := svc.Refresh(context.Background())
	if mock.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", mock.refreshes)
	}
	if st.State != QuotaDegraded {
		t.Errorf("State = %s, want degraded", st.State)
	}
}

// --- ArticleService ---

func TestArticleService_Generate(t *testing.T) {
	mock := &mockArticleUC{
		generateFn: func(_ context.Context, req backend.DraftRequest) (article.Article, error) {
			if req.Topic != "home espresso" || req.TargetWordCount != 1500 || !req.Save {
				t.Errorf("draft request = %+v", req)
			}
			return article.Article{ID: "a1", Title: "Home Espresso", WordCount: 1512}, nil
		},
	}

	svc := &ArticleService{svc: mock, quota: &mockQuotaUC{}}
	a, err := svc.Generate(context.Background(), DraftRequest{
		Topic:           "home espresso",
		TargetWordCount: 1500,
		Save:            true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != "a1" || a.WordCount != 1512 {
		t.Errorf("article = %+v", a)
	}
}

func TestArticleService_Generate_QuotaExceeded(t *testing.T) {
	mock := &mockArticleUC{
		generateFn: func(_ context.Context, _ backend.DraftRequest) (article.Article, error) {
			return article.Article{}, domain.ErrQuotaExceeded
		},
	}

	svc := &ArticleService{svc: mock, quota: &mockQuotaUC{}}
	_, err := svc.Generate(context.Background(), DraftRequest{Topic: "x"})
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
}

func TestArticleService_Expand(t *testing.T) {
	mock := &mockArticleUC{
		expandFn: func(_ context.Context, in articleuc.ExpandInput) (article.Article, error) {
			if in.ID != "a1" || in.Keyword != "espresso" {
				t.Errorf("expand input = %+v", in)
			}
			return article.Article{ID: "a1", ExpansionCount: 1}, nil
		},
	}

	svc := &ArticleService{svc: mock, quota: &mockQuotaUC{}}
	a, err := svc.Expand(context.Background(), ExpandRequest{ArticleID: "a1", Keyword: "espresso"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ExpansionCount != 1 {
		t.Errorf("ExpansionCount = %d, want 1", a.ExpansionCount)
	}
}

func TestArticleService_Expand_Limit(t *testing.T) {
	mock := &mockArticleUC{
		expandFn: func(_ context.Context, _ articleuc.ExpandInput) (article.Article, error) {
			return article.Article{}, fmt.Errorf("%w: 2 of 2 used", domain.ErrExpansionLimit)
		},
	}

	svc := &ArticleService{svc: mock, quota: &mockQuotaUC{}}
	_, err := svc.Expand(context.Background(), ExpandRequest{ArticleID: "a1"})
	if !errors.Is(err, ErrExpansionLimit) {
		t.Fatalf("err = %v, want ErrExpansionLimit", err)
	}
}

func TestArticleService_Library(t *testing.T) {
	deleted := ""
	mock := &mockArticleUC{
		listFn: func(_ context.Context) ([]article.Article, error) {
			return []article.Article{{ID: "a1"}, {ID: "a2"}}, nil
		},
		getFn: func(_ context.Context, id string) (article.Article, error) {
			if id == "missing" {
				return article.Article{}, domain.ErrNotFound
			}
			return article.Article{ID: id, Data: json.RawMessage(`{"title":"t"}`)}, nil
		},
		saveFn: func(_ context.Context, a article.Article) (article.Article, error) {
			a.ID = "new"
			return a, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	svc := &ArticleService{svc: mock, quota: &mockQuotaUC{}}
	ctx := context.Background()

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("List = %v, %v", list, err)
	}

	a, err := svc.Get(ctx, "a1")
	if err != nil || string(a.Data) != `{"title":"t"}` {
		t.Fatalf("Get = %+v, %v", a, err)
	}
	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing err = %v, want ErrNotFound", err)
	}

	saved, err := svc.Save(ctx, Article{Title: "draft"})
	if err != nil || saved.ID != "new" || saved.Title != "draft" {
		t.Fatalf("Save = %+v, %v", saved, err)
	}

	if err := svc.Delete(ctx, "a2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != "a2" {
		t.Errorf("deleted = %q, want a2", deleted)
	}
}

func TestArticleService_GenerateFromTemplate_RefreshesOnError(t *testing.T) {
	quota := &mockQuotaUC{}
	be := &mockBackend{
		fromTemplateFn: func(_ context.Context, req backend.TemplateRequest) (json.RawMessage, error) {
			if req.TemplateID != "how-to" {
				t.Errorf("TemplateID = %q", req.TemplateID)
			}
			return nil, &backend.APIError{Status: 429, Message: "Quota exceeded"}
		},
	}

	svc := &ArticleService{backend: be, quota: quota}
	_, err := svc.GenerateFromTemplate(context.Background(), "how-to", "espresso", "us")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if StatusOf(err) != 429 {
		t.Errorf("StatusOf = %d, want 429", StatusOf(err))
	}
	if quota.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", quota.refreshes)
	}
}

func TestArticleService_Templates(t *testing.T) {
	be := &mockBackend{
		templatesFn: func(_ context.Context) ([]backend.Template, error) {
			return []backend.Template{{ID: "how-to", Name: "How-to guide", Category: "guides"}}, nil
		},
	}
	svc := &ArticleService{backend: be, quota: &mockQuotaUC{}}
	list, err := svc.Templates(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Name != "How-to guide" {
		t.Errorf("templates = %+v", list)
	}
}

// --- ToolService ---

func TestToolService_Run(t *testing.T) {
	mock := &mockToolUC{
		runFn: func(_ context.Context, name backend.Tool, payload any) (json.RawMessage, error) {
			if name != backend.ToolHeadlineAnalyzer {
				t.Errorf("tool = %s", name)
			}
			in, ok := payload.(backend.HeadlineInput)
			if !ok || in.Headline != "10 espresso mistakes" {
				t.Errorf("payload = %#v", payload)
			}
			return json.RawMessage(`{"score":72}`), nil
		},
	}

	svc := &ToolService{svc: mock, quota: &mockQuotaUC{}}
	out, err := svc.HeadlineAnalyzer(context.Background(), "10 espresso mistakes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"score":72}` {
		t.Errorf("out = %s", out)
	}
}

func TestToolService_Run_LimitReached(t *testing.T) {
	mock := &mockToolUC{
		runFn: func(_ context.Context, _ backend.Tool, _ any) (json.RawMessage, error) {
			return nil, domain.ErrToolLimitReached
		},
	}

	svc := &ToolService{svc: mock, quota: &mockQuotaUC{}}
	_, err := svc.Readability(context.Background(), "text")
	if !errors.Is(err, ErrToolLimitReached) {
		t.Fatalf("err = %v, want ErrToolLimitReached", err)
	}
}

// --- AuthService / BillingService ---

func TestAuthService_SendMagicLink(t *testing.T) {
	be := &mockBackend{
		magicLinkFn: func(_ context.Context, email, redirect string) (string, error) {
			if email != "me@example.com" || redirect != "http://localhost:8080/auth/callback" {
				t.Errorf("email=%q redirect=%q", email, redirect)
			}
			return "Check your inbox", nil
		},
	}

	svc := &AuthService{backend: be}
	msg, err := svc.SendMagicLink(context.Background(), "me@example.com", "http://localhost:8080/auth/callback")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Check your inbox" {
		t.Errorf("msg = %q", msg)
	}
}

func TestAuthService_SignOut(t *testing.T) {
	session := &mockSessionUC{current: domsession.Session{AccessToken: "tok"}}
	quota := &mockQuotaUC{}

	svc := &AuthService{session: session, quota: quota}
	svc.SignOut(context.Background())

	if !session.cleared {
		t.Error("tokens not cleared")
	}
	if quota.forgets != 1 || quota.inits != 1 {
		t.Errorf("forgets=%d inits=%d, want 1/1", quota.forgets, quota.inits)
	}
}

func TestBillingService(t *testing.T) {
	be := &mockBackend{
		checkoutFn: func(_ context.Context, successURL, cancelURL string) (string, error) {
			if successURL == "" || cancelURL == "" {
				t.Error("empty return URLs")
			}
			return "https://checkout.example.com/s/1", nil
		},
		portalFn: func(_ context.Context, _ string) (string, error) {
			return "", &backend.APIError{Status: 401, Message: "Unauthorized"}
		},
	}
	svc := &BillingService{backend: be}

	u, err := svc.Checkout(context.Background(), "http://localhost/ok", "http://localhost/cancel")
	if err != nil || u != "https://checkout.example.com/s/1" {
		t.Fatalf("Checkout = %q, %v", u, err)
	}
	if _, err := svc.Portal(context.Background(), "http://localhost/"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Portal err = %v, want ErrUnauthorized", err)
	}
}
