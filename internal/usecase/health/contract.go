package health

import "context"

// StoragePinger is the local key-value store.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// SessionMode reports whether the token store gave up on durable storage
// after a write or read failed.
type SessionMode interface {
	MemoryOnly() bool
}

// BackendChecker reports whether the last profile fetch reached the backend.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
