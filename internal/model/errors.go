package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a fetch failure.
//
// Design decision: We tag errors with a kind rather than relying on
// errors.Is chains against driver-internal sentinels because downstream
// consumers of the result stream (report writers, the result store) need a
// stable, serializable taxonomy and must not import driver packages.
type ErrorKind string

// Fetch error kinds.
const (
	// KindNotFound means the target does not exist (missing file, HTTP 404).
	KindNotFound ErrorKind = "not_found"

	// KindPermission means access to the target was denied
	// (filesystem permissions, HTTP 401/403).
	KindPermission ErrorKind = "permission_denied"

	// KindDecode means the payload was retrieved but could not be decoded
	// (invalid UTF-8 in a text read, unreadable response body).
	KindDecode ErrorKind = "decode_error"

	// KindTransient covers timeouts, connection resets, HTTP 5xx and 429.
	// Transient failures are retried inside the driver; a result carrying
	// this kind means the retry budget was exhausted.
	KindTransient ErrorKind = "transient"

	// KindPermanent covers request errors that retrying cannot fix:
	// HTTP 4xx other than 429, or a query the source rejects.
	KindPermanent ErrorKind = "permanent"

	// KindMalformedTarget means the task's target could not be parsed
	// into an address the driver understands.
	KindMalformedTarget ErrorKind = "malformed_target"

	// KindRobotsDenied means the target path is disallowed by the host's
	// robots.txt rules.
	KindRobotsDenied ErrorKind = "robots_denied"

	// KindUnsupportedStrategy means no registered driver supports the
	// task's strategy. This is the only kind produced by the engine
	// itself rather than a driver.
	KindUnsupportedStrategy ErrorKind = "unsupported_strategy"
)

// FetchError is the structured failure cause carried by a failed Result.
// It implements error and unwraps to the underlying cause when present.
type FetchError struct {
	// Kind classifies the failure.
	Kind ErrorKind `json:"kind"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Attempts is the number of fetch attempts made, including the first.
	// Zero for failures where no attempt counting applies.
	Attempts int `json:"attempts,omitempty"`

	// cause is the wrapped underlying error, if any. Not serialized.
	cause error
}

// NewFetchError creates a FetchError of the given kind wrapping cause.
func NewFetchError(kind ErrorKind, cause error) *FetchError {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &FetchError{Kind: kind, Message: msg, cause: cause}
}

// Fetchf creates a FetchError of the given kind with a formatted message
// and no wrapped cause.
func Fetchf(kind ErrorKind, format string, args ...any) *FetchError {
	return &FetchError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *FetchError) Unwrap() error {
	return e.cause
}

// Transient reports whether the failure kind is eligible for retry.
func (e *FetchError) Transient() bool {
	return e.Kind == KindTransient
}

// AsFetchError extracts a *FetchError from err, or wraps err as a
// permanent failure when it carries no kind.
func AsFetchError(err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return NewFetchError(KindPermanent, err)
}
