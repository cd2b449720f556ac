package seoscribe

import (
	"context"

	healthuc "github.com/kailas-cloud/seoscribe/internal/usecase/health"
)

// HealthStatus is the client's view of its own dependencies.
//
// Checks holds "storage", "session" and "backend". Values are "ok" or
// "error", or "memory" for a session that is no longer persisted.
type HealthStatus struct {
	Status string // "ok", "degraded" or "error"
	Checks map[string]string
}

// OK reports whether every check passed.
func (h HealthStatus) OK() bool { return h.Status == string(healthuc.Healthy) }

// Health pings local storage and reports the session mode and the outcome
// of the last profile fetch. It makes no backend request.
func (c *Client) Health(ctx context.Context) HealthStatus {
	r := c.healthSvc.Check(ctx)
	h := HealthStatus{Status: string(r.Status), Checks: make(map[string]string, len(r.Checks))}
	for name, res := range r.Checks {
		h.Checks[name] = string(res)
	}
	return h
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
