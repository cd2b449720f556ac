package domain

import "errors"

var (
	// ErrNotFound signals a missing resource on the backend.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized signals a missing or rejected bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a demo or plan restriction.
	ErrForbidden = errors.New("forbidden")
	// ErrQuotaExceeded signals an exhausted generation quota.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrToolLimitReached signals an exhausted daily tool quota.
	ErrToolLimitReached = errors.New("tool limit reached")
	// ErrExpansionLimit signals that an article has used all expansions allowed by the plan.
	ErrExpansionLimit = errors.New("expansion limit reached")
	// ErrBackendUnavailable signals a transport failure talking to the backend.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidEmail signals an email address that fails validation.
	ErrInvalidEmail = errors.New("invalid email")
	// ErrUnknownTool signals a tool name the backend does not serve.
	ErrUnknownTool = errors.New("unknown tool")
)
