package darwin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies every failure the client can return.
//
// The set is closed: each public operation fails with exactly one of these.
type Kind int

const (
	// KindTransport is a connection, TLS, timeout or cancellation failure.
	KindTransport Kind = iota + 1

	// KindHTTPStatus is a non-2xx response. Status and Body are set.
	KindHTTPStatus

	// KindDecode is a 2xx response whose body does not match the expected
	// model. Path names the field where decoding failed.
	KindDecode

	// KindEncode is a request body that failed validation or serialization.
	// It is always raised before any network call.
	KindEncode

	// KindConfig is an invalid client configuration.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "TRANSPORT"
	case KindHTTPStatus:
		return "HTTP_STATUS"
	case KindDecode:
		return "DECODE"
	case KindEncode:
		return "ENCODE"
	case KindConfig:
		return "CONFIG"
	default:
		return "UNKNOWN"
	}
}

// Error represents a Darwin client error.
//
// Inspect it with errors.As:
//
//	var apiErr *darwin.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == darwin.KindHTTPStatus {
//	    log.Printf("status %d: %s", apiErr.Status, apiErr.Body)
//	}
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Op is the client operation, e.g. "datasets.get".
	Op string

	// Method and URL identify the HTTP exchange, when one was attempted.
	Method string
	URL    string

	// Status is the HTTP status code (KindHTTPStatus only).
	Status int

	// Body is the raw response body (KindHTTPStatus only).
	Body []byte

	// Path is the dotted JSON path where decoding or validation failed,
	// e.g. "stages.1.id". Empty when the failure is not tied to a field.
	Path string

	// Snippet is the raw payload fragment around a decode failure.
	Snippet string

	// Canceled is set when the caller's context was cancelled.
	Canceled bool

	// Timeout is set when the exchange hit a deadline.
	Timeout bool

	Message string
	Cause   error

	// anyServerStatus makes a sentinel match every 5xx status.
	anyServerStatus bool
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("darwin: ")
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	switch e.Kind {
	case KindHTTPStatus:
		fmt.Fprintf(&b, ": %s %s returned %d", e.Method, e.URL, e.Status)
	case KindDecode, KindEncode:
		if e.Path != "" {
			fmt.Fprintf(&b, ": at %q", e.Path)
		}
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a sentinel matching this error's Kind and,
// when the sentinel carries one, its Status.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	switch {
	case t.anyServerStatus:
		if e.Status < 500 || e.Status > 599 {
			return false
		}
	case t.Status != 0 && t.Status != e.Status:
		return false
	}
	if t.Canceled && !e.Canceled {
		return false
	}
	return true
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound     = &Error{Kind: KindHTTPStatus, Status: http.StatusNotFound, Message: "resource not found"}
	ErrUnauthorized = &Error{Kind: KindHTTPStatus, Status: http.StatusUnauthorized, Message: "invalid API key"}
	ErrForbidden    = &Error{Kind: KindHTTPStatus, Status: http.StatusForbidden, Message: "forbidden"}
	ErrRateLimited  = &Error{Kind: KindHTTPStatus, Status: http.StatusTooManyRequests, Message: "rate limited"}
	ErrServer       = &Error{Kind: KindHTTPStatus, anyServerStatus: true, Message: "server error"}
	ErrCanceled     = &Error{Kind: KindTransport, Canceled: true, Message: "request cancelled"}
)

// KindOf returns the Kind of err, or 0 if err is not a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsNotFound returns true if the server answered 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited returns true if the server answered 429.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsCanceled returns true if the exchange was abandoned because the
// caller's context was cancelled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsTransport returns true for connection-level failures.
func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}

// IsDecode returns true if a successful response could not be decoded.
func IsDecode(err error) bool {
	return KindOf(err) == KindDecode
}

func newConfigError(msg string, cause error) *Error {
	return &Error{Kind: KindConfig, Message: msg, Cause: cause}
}

func newEncodeError(op, path, msg string, cause error) *Error {
	return &Error{Kind: KindEncode, Op: op, Path: path, Message: msg, Cause: cause}
}
