package quota

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/domain/plan"
	"github.com/kailas-cloud/seoscribe/internal/domain/profile"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
	"github.com/kailas-cloud/seoscribe/internal/metrics"
)

// --- Mocks ---

type mockFetcher struct {
	mu    sync.Mutex
	p     profile.Profile
	err   error
	calls int
}

func (m *mockFetcher) Profile(_ context.Context) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.p, m.err
}

func (m *mockFetcher) set(p profile.Profile, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p, m.err = p, err
}

type mockCache struct {
	snap    usage.Snapshot
	found   bool
	loadErr error
	saveErr error
	saved   []usage.Snapshot
	cleared bool
}

func (m *mockCache) Load(_ context.Context) (usage.Snapshot, bool, error) {
	return m.snap, m.found, m.loadErr
}

func (m *mockCache) Save(_ context.Context, snap usage.Snapshot) error {
	m.saved = append(m.saved, snap)
	return m.saveErr
}

func (m *mockCache) Clear(_ context.Context) error {
	m.cleared = true
	m.found = false
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time      { return c.t }
func (c *clock) add(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
}

func counters(dayGens, monthGens, tools int) usage.Counters {
	return usage.Counters{
		Today: usage.Today{Generations: dayGens, Tools: tools},
		Month: usage.Month{Generations: monthGens},
	}
}

// --- Tests ---

func TestNew_Uninitialized(t *testing.T) {
	svc := New(&mockFetcher{}, nil, nil)
	st := svc.Status()
	if st.State != Uninitialized || st.Plan != plan.Free {
		t.Errorf("status = %+v", st)
	}
	if st.DayLimit != 1 || st.DayRemaining != 1 || !st.CanGenerate {
		t.Errorf("free defaults = %+v", st)
	}
}

func TestInit_Authoritative(t *testing.T) {
	c := newClock()
	f := &mockFetcher{p: profile.Profile{
		Plan:           plan.Pro,
		Email:          "a@b.co",
		Usage:          counters(3, 40, 0),
		ToolUsageToday: 4,
		ToolLimitDaily: 10,
	}}
	cache := &mockCache{}
	svc := New(f, cache, nil, WithClock(c.now))

	svc.Init(context.Background())
	st := svc.Status()

	if st.State != Authoritative || st.Plan != plan.Pro || st.Email != "a@b.co" {
		t.Fatalf("status = %+v", st)
	}
	if st.DayLimit != 15 || st.DayRemaining != 12 {
		t.Errorf("day limit/remaining = %d/%d", st.DayLimit, st.DayRemaining)
	}
	if st.MonthLimit != 9999 || st.MonthRemaining != 9959 {
		t.Errorf("month limit/remaining = %d/%d", st.MonthLimit, st.MonthRemaining)
	}
	if st.ToolLimit != 10 || st.ToolRemaining != 6 {
		t.Errorf("tools limit/remaining = %d/%d", st.ToolLimit, st.ToolRemaining)
	}
	if st.MaxExpansions != 6 {
		t.Errorf("MaxExpansions = %d", st.MaxExpansions)
	}
	if len(cache.saved) != 1 || !usage.SameDay(cache.saved[0].Date, usage.DayOf(c.t)) {
		t.Fatalf("saved = %+v", cache.saved)
	}
	if cache.saved[0].Today.Tools != 4 {
		t.Errorf("cached tools = %d", cache.saved[0].Today.Tools)
	}
}

func TestInit_FailureUsesTodaysCache(t *testing.T) {
	c := newClock()
	cache := &mockCache{snap: usage.New(usage.DayOf(c.t), counters(1, 7, 1)), found: true}
	svc := New(&mockFetcher{err: errors.New("offline")}, cache, nil, WithClock(c.now))

	svc.Init(context.Background())
	st := svc.Status()

	if st.State != Degraded || st.Plan != plan.Free {
		t.Fatalf("status = %+v", st)
	}
	if st.Usage.Today.Generations != 1 || st.Usage.Month.Generations != 7 {
		t.Errorf("usage = %+v", st.Usage)
	}
	if st.CanGenerate || st.CanUseTool {
		t.Error("free plan with 1 used should be exhausted")
	}
	if len(cache.saved) != 0 {
		t.Error("degraded state must not be persisted")
	}
}

func TestInit_FailureIgnoresYesterdaysCache(t *testing.T) {
	c := newClock()
	yesterday := usage.DayOf(c.t.Add(-24 * time.Hour))
	cache := &mockCache{snap: usage.New(yesterday, counters(1, 7, 1)), found: true}
	svc := New(&mockFetcher{err: errors.New("offline")}, cache, nil, WithClock(c.now))

	svc.Init(context.Background())
	st := svc.Status()

	if st.Usage != (usage.Counters{}) {
		t.Errorf("stale cache should read as zero, got %+v", st.Usage)
	}
	if !st.CanGenerate {
		t.Error("expected a fresh day to allow generation")
	}
}

func TestInit_FailureWithUnreadableCache(t *testing.T) {
	cache := &mockCache{loadErr: errors.New("corrupt")}
	svc := New(&mockFetcher{err: errors.New("offline")}, cache, nil)

	svc.Init(context.Background())
	if st := svc.Status(); st.State != Degraded || st.Usage != (usage.Counters{}) {
		t.Errorf("status = %+v", st)
	}
}

func TestRefreshUsage_ServerWins(t *testing.T) {
	c := newClock()
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro, Usage: counters(2, 2, 0)}}
	svc := New(f, nil, nil, WithClock(c.now))
	ctx := context.Background()

	svc.Init(ctx)
	svc.NoteGeneration()
	svc.NoteGeneration()
	svc.NoteToolUse()
	if got := svc.Status().Usage.Today.Generations; got != 4 {
		t.Fatalf("predicted = %d, want 4", got)
	}

	// Backend counted only one of the two.
	f.set(profile.Profile{Plan: plan.Pro, Usage: counters(3, 3, 0)}, nil)
	svc.RefreshUsage(ctx)

	st := svc.Status()
	if st.Usage.Today.Generations != 3 || st.Usage.Month.Generations != 3 || st.Usage.Today.Tools != 0 {
		t.Errorf("after refresh usage = %+v", st.Usage)
	}
}

func TestRefreshUsage_DropsPredictedIncrements(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro, Usage: counters(2, 2, 0)}}
	svc := New(f, nil, zap.New(core))
	ctx := context.Background()

	svc.Init(ctx)
	if n := logs.FilterMessage("server usage replaces predicted increments").Len(); n != 0 {
		t.Fatalf("nothing was predicted yet, got %d log lines", n)
	}

	svc.NoteGeneration()
	svc.NoteToolUse()
	f.set(profile.Profile{Plan: plan.Pro, Usage: counters(3, 3, 1)}, nil)
	svc.RefreshUsage(ctx)

	entries := logs.FilterMessage("server usage replaces predicted increments").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log lines, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["generations"] != int64(1) || fields["tools"] != int64(1) {
		t.Errorf("fields = %v", fields)
	}
	if st := svc.Status(); st.Usage.Today.Generations != 3 {
		t.Errorf("usage = %+v", st.Usage)
	}
}

func TestRefreshUsage_FailureKeepsState(t *testing.T) {
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro, Email: "a@b.co", Usage: counters(5, 5, 0)}}
	svc := New(f, nil, nil)
	ctx := context.Background()

	svc.Init(ctx)
	svc.NoteGeneration()
	before := svc.Status()

	f.set(profile.Profile{}, errors.New("503"))
	svc.RefreshUsage(ctx)

	if after := svc.Status(); after != before {
		t.Errorf("state changed on failed refresh:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestInit_FailureAfterSuccessKeepsState(t *testing.T) {
	c := newClock()
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro, Email: "a@b.co", Usage: counters(3, 20, 0)}}
	cache := &mockCache{}
	svc := New(f, cache, nil, WithClock(c.now))
	ctx := context.Background()

	svc.Init(ctx)
	svc.NoteGeneration()
	before := svc.Status()
	if before.State != Authoritative || before.Usage.Today.Generations != 4 || before.DayRemaining != 11 {
		t.Fatalf("before = %+v", before)
	}

	// A second mount runs Init while the backend is down.
	f.set(profile.Profile{}, errors.New("connection refused"))
	svc.Init(ctx)

	if after := svc.Status(); after != before {
		t.Errorf("state changed on failed Init:\nbefore %+v\nafter  %+v", before, after)
	}
}

func TestInit_FailureAfterForgetDegrades(t *testing.T) {
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro, Usage: counters(3, 20, 0)}}
	svc := New(f, &mockCache{}, nil)
	ctx := context.Background()

	svc.Init(ctx)
	svc.Forget(ctx)
	f.set(profile.Profile{}, errors.New("401"))
	svc.Init(ctx)

	if st := svc.Status(); st.State != Degraded || st.Plan != plan.Free {
		t.Errorf("after sign-out = %+v", st)
	}
}

func TestRefreshUsage_RecoversFromDegraded(t *testing.T) {
	f := &mockFetcher{err: errors.New("offline")}
	svc := New(f, nil, nil)
	ctx := context.Background()

	svc.Init(ctx)
	if svc.State() != Degraded {
		t.Fatal("expected degraded")
	}
	f.set(profile.Profile{Plan: plan.Pro}, nil)
	svc.RefreshUsage(ctx)
	if svc.State() != Authoritative || svc.Plan() != plan.Pro {
		t.Errorf("state = %s plan = %s", svc.State(), svc.Plan())
	}
}

func TestNoteGeneration_IncrementsByOne(t *testing.T) {
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Pro, Usage: counters(0, 10, 0)}}, nil, nil)
	svc.Init(context.Background())

	for i := 1; i <= 20; i++ {
		svc.NoteGeneration()
		st := svc.Status()
		if st.Usage.Today.Generations != i || st.Usage.Month.Generations != 10+i {
			t.Fatalf("after %d notes usage = %+v", i, st.Usage)
		}
		if st.DayRemaining < 0 || st.MonthRemaining < 0 {
			t.Fatalf("negative remaining: %+v", st)
		}
	}
	if svc.DayRemaining() != 0 || svc.CanGenerate() {
		t.Errorf("DayRemaining = %d, CanGenerate = %v", svc.DayRemaining(), svc.CanGenerate())
	}
}

func TestRemainingNeverNegative(t *testing.T) {
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Free, Usage: counters(9, 99, 9)}}, nil, nil)
	svc.Init(context.Background())

	if svc.DayRemaining() != 0 || svc.MonthRemaining() != 0 || svc.ToolRemaining() != 0 {
		t.Errorf("remaining = %d/%d/%d", svc.DayRemaining(), svc.MonthRemaining(), svc.ToolRemaining())
	}
	if svc.CanGenerate() || svc.CanUseTool() {
		t.Error("expected exhausted")
	}
}

func TestDayRollover(t *testing.T) {
	c := newClock()
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Free, Usage: counters(1, 1, 1)}}, nil, nil, WithClock(c.now))
	svc.Init(context.Background())
	svc.NoteGeneration()

	if svc.CanGenerate() {
		t.Fatal("expected exhausted today")
	}

	c.add(24 * time.Hour)
	st := svc.Status()
	if st.Usage != (usage.Counters{}) {
		t.Errorf("yesterday's snapshot should read as zero, got %+v", st.Usage)
	}
	if !st.CanGenerate || !st.CanUseTool {
		t.Error("expected a fresh day")
	}

	svc.NoteGeneration()
	if got := svc.Status().Usage.Today.Generations; got != 1 {
		t.Errorf("today generations = %d, want 1", got)
	}
}

func TestToolLimitFallsBackToPlan(t *testing.T) {
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Pro}}, nil, nil)
	svc.Init(context.Background())
	if svc.ToolLimit() != 10 {
		t.Errorf("ToolLimit = %d", svc.ToolLimit())
	}
}

func TestForget(t *testing.T) {
	cache := &mockCache{}
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Pro, Email: "a@b.co"}}, cache, nil)
	svc.Init(context.Background())

	svc.Forget(context.Background())
	st := svc.Status()
	if !cache.cleared {
		t.Error("cache not cleared")
	}
	if st.State != Uninitialized || st.Plan != plan.Free || st.Email != "" {
		t.Errorf("status = %+v", st)
	}
}

func TestMetricsPublished(t *testing.T) {
	svc := New(&mockFetcher{p: profile.Profile{Plan: plan.Pro, Usage: counters(5, 5, 0)}}, nil, nil)
	svc.Init(context.Background())

	if got := testutil.ToFloat64(metrics.QuotaRemaining.WithLabelValues("day")); got != 10 {
		t.Errorf("day gauge = %v", got)
	}
	svc.NoteGeneration()
	if got := testutil.ToFloat64(metrics.QuotaRemaining.WithLabelValues("day")); got != 9 {
		t.Errorf("day gauge after note = %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	f := &mockFetcher{p: profile.Profile{Plan: plan.Pro}}
	svc := New(f, &syncCache{}, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); svc.RefreshUsage(ctx) }()
		go func() { defer wg.Done(); svc.NoteGeneration() }()
		go func() { defer wg.Done(); _ = svc.Status() }()
	}
	wg.Wait()

	if svc.State() != Authoritative {
		t.Errorf("state = %s", svc.State())
	}
}

type syncCache struct {
	mu sync.Mutex
	mockCache
}

func (s *syncCache) Save(ctx context.Context, snap usage.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mockCache.Save(ctx, snap)
}

func TestHealthCheck(t *testing.T) {
	f := &mockFetcher{err: errors.New("offline")}
	svc := New(f, nil, nil)
	ctx := context.Background()

	if err := svc.HealthCheck(ctx); err != nil {
		t.Errorf("uninitialized: %v", err)
	}
	svc.Init(ctx)
	if err := svc.HealthCheck(ctx); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Errorf("degraded: %v", err)
	}
	f.set(profile.Profile{}, nil)
	svc.RefreshUsage(ctx)
	if err := svc.HealthCheck(ctx); err != nil {
		t.Errorf("authoritative: %v", err)
	}
}
