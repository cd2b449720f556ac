package backend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kailas-cloud/seoscribe/internal/domain"
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	// Message is the human-readable text shown to the user.
	Message string
	// Body is the raw response body; JSON reports whether it was declared as JSON.
	Body []byte
	JSON bool
}

// Error returns Message unchanged so it can be shown to the user as is.
func (e *APIError) Error() string { return e.Message }

// Unwrap maps well-known statuses to domain sentinels for errors.Is.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrQuotaExceeded
	default:
		return nil
	}
}

// newAPIError picks the message: JSON "message", then JSON "error", then the
// raw text of a non-JSON body, then "HTTP <status>".
func newAPIError(status int, body []byte, isJSON bool) *APIError {
	e := &APIError{Status: status, Body: body, JSON: isJSON}

	if isJSON {
		var parsed map[string]any
		if json.Unmarshal(body, &parsed) == nil {
			e.Message = firstString(parsed, "message", "error")
		}
	} else {
		e.Message = strings.TrimSpace(string(body))
	}

	if e.Message == "" {
		e.Message = "HTTP " + strconv.Itoa(status)
	}
	return e
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0 if err is not an APIError.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
