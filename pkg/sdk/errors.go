package seoscribe

import (
	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrUnauthorized       = domain.ErrUnauthorized
	ErrForbidden          = domain.ErrForbidden
	ErrQuotaExceeded      = domain.ErrQuotaExceeded
	ErrToolLimitReached   = domain.ErrToolLimitReached
	ErrExpansionLimit     = domain.ErrExpansionLimit
	ErrBackendUnavailable = domain.ErrBackendUnavailable
	ErrInvalidEmail       = domain.ErrInvalidEmail
	ErrUnknownTool        = domain.ErrUnknownTool
)

// APIError is a non-2xx backend response. Use errors.As() to inspect the
// status and the raw body.
type APIError = backend.APIError

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int { return backend.StatusOf(err) }
