package ingest

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of ingestion failure reasons callers are
// allowed to branch on.
type ErrorKind string

const (
	KindUserNotFound    ErrorKind = "user_not_found"
	KindOverQuota       ErrorKind = "over_quota"
	KindStoreFailed     ErrorKind = "store_failed"
	KindToolUnavailable ErrorKind = "tool_unavailable"
)

// ErrTooManyFiles rejects batches over the configured file cap before any
// processing starts.
var ErrTooManyFiles = errors.New("too many files in batch")

// Error carries a kind alongside the underlying cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the kind from err, or "" when err is not an ingestion error.
func KindOf(err error) ErrorKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// IsKind reports whether err is an ingestion error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
