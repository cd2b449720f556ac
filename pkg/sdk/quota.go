package seoscribe

import "context"

// QuotaService exposes the local mirror of the plan quota.
// Its numbers are advisory; the backend enforces the real limits.
type QuotaService struct {
	svc quotaUseCase
	obs *observer
}

// Status returns the current quota view.
func (s *QuotaService) Status() QuotaStatus {
	return fromInternalStatus(s.svc.Status())
}

// Refresh re-fetches the profile. On success the server's counters replace
// every local prediction; on failure the previous state is kept.
func (s *QuotaService) Refresh(ctx context.Context) QuotaStatus {
	s.svc.RefreshUsage(ctx)
	st := s.Status()
	s.obs.quota(st)
	return st
}

// CanGenerate reports whether today's generation quota has room left.
func (s *QuotaService) CanGenerate() bool {
	return s.svc.Status().CanGenerate
}

// CanUseTool reports whether today's tool quota has room left.
func (s *QuotaService) CanUseTool() bool {
	return s.svc.Status().CanUseTool
}
