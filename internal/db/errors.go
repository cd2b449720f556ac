package db

import "errors"

var (
	// ErrKeyNotFound is returned by Get for keys that were never set or were deleted.
	ErrKeyNotFound = errors.New("db: key not found")
	// ErrClosed is returned by every call made after Close.
	ErrClosed = errors.New("db: store closed")
)

// Storage operations named in Error.
const (
	OpPing = "ping"
	OpGet  = "get"
	OpSet  = "set"
	OpDel  = "del"
)

// Error is a driver failure other than a missing key. Callers treat it as
// storage being unavailable.
type Error struct {
	Op  string
	Key string // empty for ping
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "db " + e.Op + ": " + e.Err.Error()
	}
	return "db " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnavailable reports whether err came from a failing store rather than
// a missing key.
func IsUnavailable(err error) bool {
	var de *Error
	return errors.As(err, &de)
}
