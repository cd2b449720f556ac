// Package quota mirrors the backend's plan and usage counters so the UI can
// gate actions before sending them. The backend stays the authority: every
// refresh overwrites local state and drops predicted increments.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oapi-codegen/runtime/types"
	"go.uber.org/zap"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/domain/plan"
	"github.com/kailas-cloud/seoscribe/internal/domain/profile"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
	"github.com/kailas-cloud/seoscribe/internal/metrics"
)

// State is the mirror's lifecycle state.
type State string

const (
	// Uninitialized means no fetch has been attempted yet.
	Uninitialized State = "uninitialized"
	// Authoritative means the last fetch succeeded.
	Authoritative State = "authoritative"
	// Degraded means the initial fetch failed; cached or zero usage is shown on the free plan.
	Degraded State = "degraded"
)

// Status is a point-in-time view of the mirror.
type Status struct {
	State          State          `json:"state"`
	Plan           plan.Tier      `json:"plan"`
	Email          string         `json:"email,omitempty"`
	Date           types.Date     `json:"date"`
	Usage          usage.Counters `json:"usage"`
	DayLimit       int            `json:"day_limit"`
	MonthLimit     int            `json:"month_limit"`
	DayRemaining   int            `json:"day_remaining"`
	MonthRemaining int            `json:"month_remaining"`
	CanGenerate    bool           `json:"can_generate"`
	ToolLimit      int            `json:"tool_limit"`
	ToolRemaining  int            `json:"tool_remaining"`
	CanUseTool     bool           `json:"can_use_tool"`
	MaxExpansions  int            `json:"max_expansions"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for day keys.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the quota mirror.
type Service struct {
	fetcher ProfileFetcher
	cache   SnapshotCache
	now     func() time.Time
	logger  *zap.Logger

	mu        sync.Mutex
	state     State
	tier      plan.Tier
	email     string
	base      usage.Snapshot
	delta     usage.Delta
	toolLimit int
}

// New creates a Service. cache can be nil (no persistence).
func New(fetcher ProfileFetcher, cache SnapshotCache, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		fetcher: fetcher,
		cache:   cache,
		now:     time.Now,
		logger:  logger,
		state:   Uninitialized,
		tier:    plan.Free,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init fetches the profile. When the first fetch fails the mirror shows the
// cached snapshot for today (or zero) on the free plan; a failure after that
// leaves the current state alone. Errors are logged, never returned.
func (s *Service) Init(ctx context.Context) {
	p, err := s.fetcher.Profile(ctx)
	if err == nil {
		s.apply(ctx, p)
		return
	}

	metrics.QuotaRefreshTotal.WithLabelValues("error").Inc()
	if s.State() != Uninitialized {
		s.logger.Warn("profile fetch failed, keeping previous state", zap.Error(err))
		return
	}
	s.logger.Warn("profile fetch failed, showing cached usage", zap.Error(err))

	today := usage.DayOf(s.now())
	snap := usage.Zero(today)
	if s.cache != nil {
		cached, found, cerr := s.cache.Load(ctx)
		if cerr != nil {
			s.logger.Debug("usage cache unreadable", zap.Error(cerr))
		}
		if found {
			snap = cached.On(today)
		}
	}

	s.mu.Lock()
	if s.state != Uninitialized {
		// A concurrent Init or refresh got there first.
		s.mu.Unlock()
		return
	}
	s.state = Degraded
	s.tier = plan.Free
	s.email = ""
	s.base = snap
	s.delta = usage.Delta{Date: today}
	s.toolLimit = 0
	st := s.statusLocked()
	s.mu.Unlock()

	publish(st)
}

// RefreshUsage re-fetches the profile. On failure prior state is kept.
func (s *Service) RefreshUsage(ctx context.Context) {
	p, err := s.fetcher.Profile(ctx)
	if err != nil {
		metrics.QuotaRefreshTotal.WithLabelValues("error").Inc()
		s.logger.Warn("usage refresh failed, keeping previous state", zap.Error(err))
		return
	}
	s.apply(ctx, p)
}

func (s *Service) apply(ctx context.Context, p profile.Profile) {
	today := usage.DayOf(s.now())
	counters := p.Usage
	counters.Today.Tools = p.ToolsUsed()
	snap := usage.New(today, counters)

	s.mu.Lock()
	dropped := s.delta
	s.state = Authoritative
	s.tier = p.Plan
	s.email = p.Email
	s.base = snap
	s.delta = usage.Delta{Date: today}
	s.toolLimit = p.ToolLimit()
	st := s.statusLocked()
	s.mu.Unlock()

	if !dropped.IsZero() {
		s.logger.Debug("server usage replaces predicted increments",
			zap.Int("generations", dropped.Generations),
			zap.Int("tools", dropped.Tools),
		)
	}
	metrics.QuotaRefreshTotal.WithLabelValues("ok").Inc()
	publish(st)

	if s.cache != nil {
		if err := s.cache.Save(ctx, snap); err != nil {
			s.logger.Warn("usage cache write failed", zap.Error(err))
		}
	}
}

// NoteGeneration records a predicted generation until the next refresh.
func (s *Service) NoteGeneration() {
	s.note(1, 0)
}

// NoteToolUse records a predicted tool use until the next refresh.
func (s *Service) NoteToolUse() {
	s.note(0, 1)
}

func (s *Service) note(gens, tools int) {
	today := usage.DayOf(s.now())

	s.mu.Lock()
	if !usage.SameDay(s.delta.Date, today) {
		s.delta = usage.Delta{Date: today}
	}
	s.delta.Generations += gens
	s.delta.Tools += tools
	st := s.statusLocked()
	s.mu.Unlock()

	publish(st)
}

// Forget drops the cached snapshot and resets the mirror, e.g. on sign-out.
func (s *Service) Forget(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.logger.Warn("usage cache clear failed", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.state = Uninitialized
	s.tier = plan.Free
	s.email = ""
	s.base = usage.Snapshot{}
	s.delta = usage.Delta{}
	s.toolLimit = 0
	s.mu.Unlock()
}

// Status returns the current view.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// State returns the lifecycle state.
func (s *Service) State() State { return s.Status().State }

// Plan returns the mirrored plan tier.
func (s *Service) Plan() plan.Tier { return s.Status().Plan }

// DayLimit returns the daily generation limit of the plan.
func (s *Service) DayLimit() int { return s.Status().DayLimit }

// MonthLimit returns the monthly generation limit of the plan.
func (s *Service) MonthLimit() int { return s.Status().MonthLimit }

// DayRemaining returns the generations left today, never negative.
func (s *Service) DayRemaining() int { return s.Status().DayRemaining }

// MonthRemaining returns the generations left this month, never negative.
func (s *Service) MonthRemaining() int { return s.Status().MonthRemaining }

// CanGenerate reports whether a generation is allowed today.
func (s *Service) CanGenerate() bool { return s.Status().CanGenerate }

// ToolLimit returns the daily tool limit.
func (s *Service) ToolLimit() int { return s.Status().ToolLimit }

// ToolRemaining returns the tool uses left today, never negative.
func (s *Service) ToolRemaining() int { return s.Status().ToolRemaining }

// CanUseTool reports whether a tool use is allowed today.
func (s *Service) CanUseTool() bool { return s.Status().CanUseTool }

// MaxExpansions returns how many times the plan allows one article to be expanded.
func (s *Service) MaxExpansions() int { return s.Status().MaxExpansions }

// statusLocked derives the view. Caller holds mu.
func (s *Service) statusLocked() Status {
	today := usage.DayOf(s.now())
	cur := s.base.On(today).Apply(s.delta)
	q := s.tier.Quota()

	toolLimit := s.toolLimit
	if toolLimit <= 0 {
		toolLimit = q.ToolUsesPerDay
	}

	st := Status{
		State:          s.state,
		Plan:           s.tier,
		Email:          s.email,
		Date:           today,
		Usage:          cur.Counters,
		DayLimit:       q.GenerationsPerDay,
		MonthLimit:     q.GenerationsPerMonth,
		DayRemaining:   max(0, q.GenerationsPerDay-cur.Today.Generations),
		MonthRemaining: max(0, q.GenerationsPerMonth-cur.Month.Generations),
		ToolLimit:      toolLimit,
		ToolRemaining:  max(0, toolLimit-cur.Today.Tools),
		MaxExpansions:  q.ExpansionsPerArticle,
	}
	st.CanGenerate = st.DayRemaining > 0
	st.CanUseTool = st.ToolRemaining > 0
	return st
}

func publish(st Status) {
	metrics.QuotaRemaining.WithLabelValues("day").Set(float64(st.DayRemaining))
	metrics.QuotaRemaining.WithLabelValues("month").Set(float64(st.MonthRemaining))
	metrics.QuotaRemaining.WithLabelValues("tools").Set(float64(st.ToolRemaining))
}

// HealthCheck fails while the mirror is running on cached data because the
// backend could not be reached.
func (s *Service) HealthCheck(_ context.Context) error {
	if s.State() == Degraded {
		return fmt.Errorf("%w: showing cached usage", domain.ErrBackendUnavailable)
	}
	return nil
}
