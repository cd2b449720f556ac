package chi

import (
	"errors"
	"net/http"

	"github.com/kailas-cloud/seoscribe/internal/db"
	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// ErrorCode is a machine-readable error kind in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeForbidden          ErrorCode = "forbidden"
	CodeNotFound           ErrorCode = "not_found"
	CodeQuotaExceeded      ErrorCode = "quota_exceeded"
	CodeToolLimitReached   ErrorCode = "tool_limit_reached"
	CodeExpansionLimit     ErrorCode = "expansion_limit_reached"
	CodeInvalidEmail       ErrorCode = "invalid_email"
	CodeUnknownTool        ErrorCode = "unknown_tool"
	CodeBackendError       ErrorCode = "backend_error"
	CodeBackendUnavailable ErrorCode = "backend_unavailable"
	CodeStorageUnavailable ErrorCode = "storage_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		apiErrorHandler,
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, CodeForbidden),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrQuotaExceeded, http.StatusTooManyRequests, CodeQuotaExceeded),
		sentinelHandler(domain.ErrToolLimitReached, http.StatusPaymentRequired, CodeToolLimitReached),
		sentinelHandler(domain.ErrExpansionLimit, http.StatusPaymentRequired, CodeExpansionLimit),
		sentinelHandler(domain.ErrInvalidEmail, http.StatusBadRequest, CodeInvalidEmail),
		sentinelHandler(domain.ErrUnknownTool, http.StatusNotFound, CodeUnknownTool),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, CodeBackendUnavailable),
		storageErrorHandler,
	}
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnauthorized,
		domain.ErrForbidden,
		domain.ErrNotFound,
		domain.ErrQuotaExceeded,
		domain.ErrToolLimitReached,
		domain.ErrExpansionLimit,
		domain.ErrInvalidEmail,
		domain.ErrUnknownTool,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// apiErrorHandler passes backend errors through with their status and message,
// since the backend's message is what the user should read.
func apiErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	writeError(w, apiErr.Status, codeForStatus(apiErr.Status), apiErr.Message)
	return true
}

// storageErrorHandler hides driver details; the key and cause go to the log only.
func storageErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	if !db.IsUnavailable(err) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, CodeStorageUnavailable, "local storage unavailable")
	return true
}

func codeForStatus(status int) ErrorCode {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusTooManyRequests:
		return CodeQuotaExceeded
	default:
		return CodeBackendError
	}
}
