package health

import "context"

// Status is the overall shell health.
type Status string

const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded"
	Unhealthy Status = "error"
)

// CheckResult is one component's state.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
	// CheckMemory means the session lives in process memory and is lost on restart.
	CheckMemory CheckResult = "memory"
)

// Component names used as Report.Checks keys.
const (
	ComponentStorage = "storage"
	ComponentSession = "session"
	ComponentBackend = "backend"
)

// Report is served by GET /health.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service aggregates component checks.
type Service struct {
	storage StoragePinger
	session SessionMode
	backend BackendChecker
}

// New creates a Service. session and backend can be nil.
func New(storage StoragePinger, session SessionMode, backend BackendChecker) *Service {
	return &Service{storage: storage, session: session, backend: backend}
}

// Check pings storage and reads the cached state of the others.
//
// A failed storage ping is Unhealthy. A memory-only session or an
// unreachable backend is Degraded: the shell still serves requests.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, 3)}

	if err := s.storage.Ping(ctx); err != nil {
		r.set(ComponentStorage, CheckError, Unhealthy)
	} else {
		r.set(ComponentStorage, CheckOK, Healthy)
	}

	if s.session != nil {
		if s.session.MemoryOnly() {
			r.set(ComponentSession, CheckMemory, Degraded)
		} else {
			r.set(ComponentSession, CheckOK, Healthy)
		}
	}

	if s.backend != nil {
		if err := s.backend.HealthCheck(ctx); err != nil {
			r.set(ComponentBackend, CheckError, Degraded)
		} else {
			r.set(ComponentBackend, CheckOK, Healthy)
		}
	}
	return r
}

// set records a component result and lowers the overall status to at most worst.
func (r *Report) set(component string, result CheckResult, worst Status) {
	r.Checks[component] = result
	if rank(worst) > rank(r.Status) {
		r.Status = worst
	}
}

func rank(s Status) int {
	switch s {
	case Unhealthy:
		return 2
	case Degraded:
		return 1
	default:
		return 0
	}
}
