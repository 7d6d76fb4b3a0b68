// Package apperrors defines the typed error taxonomy used across the
// service: backend failures, invalid configuration, unsupported
// operations, and validation failures are distinguished so callers can
// branch on Type instead of matching error strings. Each error also
// carries a Code identifying the specific condition within its Type, a
// Retryable hint for callers deciding whether to resubmit a request,
// and a StatusCode a future HTTP or gRPC binding could surface
// directly without re-deriving it from Type.
package apperrors

import "fmt"

// Type categorizes an error for callers that need to branch on it.
type Type string

const (
	TypeInternal        Type = "INTERNAL"
	TypeInvalidArgument Type = "INVALID_ARGUMENT"
	TypeUnsupported     Type = "UNSUPPORTED"
	TypeValidation      Type = "VALIDATION"
)

// statusCodeForType gives each Type a default classification a
// transport layer could map onto HTTP or gRPC status codes, without
// this package importing either.
func statusCodeForType(t Type) int {
	switch t {
	case TypeInvalidArgument:
		return 400
	case TypeValidation:
		return 422
	case TypeUnsupported:
		return 501
	default:
		return 500
	}
}

// retryableForType reports whether an error of this Type is, absent a
// more specific WithRetryable call, worth resubmitting. Only Internal
// errors default to retryable: they're the category backend
// connectivity failures land in, and those are frequently transient.
func retryableForType(t Type) bool {
	return t == TypeInternal
}

// Error is the service's error type. It always carries a Type so
// middleware and tests can classify failures without string matching,
// plus a Code narrowing that classification to the specific condition
// that was hit.
type Error struct {
	Type       Type
	Code       string
	Message    string
	Err        error
	Retryable  bool
	StatusCode int
}

func newError(t Type, code, message string, err error) *Error {
	return &Error{
		Type:       t,
		Code:       code,
		Message:    message,
		Err:        err,
		Retryable:  retryableForType(t),
		StatusCode: statusCodeForType(t),
	}
}

func (e *Error) Error() string {
	prefix := string(e.Type)
	if e.Code != "" {
		prefix = fmt.Sprintf("%s:%s", e.Type, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is compares Type and Code, letting errors.Is match a sentinel-style
// *Error without the caller ever seeing the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCode narrows the error to a specific condition within its Type,
// e.g. apperrors.Internal(...).WithCode("QUAD_STORE_UNREACHABLE").
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithRetryable overrides the Type-derived retry default.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithStatusCode overrides the Type-derived status classification.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// Internal wraps a backend failure (connectivity loss, remote SPARQL
// error, disk error). Retryable by default; never retried by the core
// itself, callers above it (resilience.Breaker, a future queue
// consumer) decide.
func Internal(message string, err error) error {
	return newError(TypeInternal, "INTERNAL_ERROR", message, err)
}

// InvalidArgument reports a fatal construction-time error (nil
// adapter, nil identifier service, malformed required config). Not
// retryable: the same arguments will fail again.
func InvalidArgument(message string) error {
	return newError(TypeInvalidArgument, "INVALID_ARGUMENT", message, nil)
}

// Unsupported reports an operation the service deliberately does not
// implement in this dialect (e.g. purge).
func Unsupported(message string) error {
	return newError(TypeUnsupported, "UNSUPPORTED_OPERATION", message, nil)
}

// Validation reports a caller input error.
func Validation(message string) error {
	return newError(TypeValidation, "VALIDATION_ERROR", message, nil)
}

// Wrap adds context to err, preserving its Type, Code, Retryable and
// StatusCode if it is already an *Error, and classifying it as
// Internal otherwise.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return &Error{
			Type:       e.Type,
			Code:       e.Code,
			Message:    fmt.Sprintf("%s: %s", message, e.Message),
			Err:        e.Err,
			Retryable:  e.Retryable,
			StatusCode: e.StatusCode,
		}
	}
	return newError(TypeInternal, "INTERNAL_ERROR", message, err)
}

func Is(err error, t Type) bool {
	e, ok := err.(*Error)
	return ok && e.Type == t
}

func IsInternal(err error) bool        { return Is(err, TypeInternal) }
func IsInvalidArgument(err error) bool { return Is(err, TypeInvalidArgument) }
func IsUnsupported(err error) bool     { return Is(err, TypeUnsupported) }
func IsValidation(err error) bool      { return Is(err, TypeValidation) }

// IsRetryable reports whether err is an *Error marked retryable,
// false for anything else including nil.
func IsRetryable(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Retryable
}

// StatusCodeOf returns the classification StatusCode carries for err,
// or 500 for an error this package didn't originate.
func StatusCodeOf(err error) int {
	if e, ok := err.(*Error); ok {
		return e.StatusCode
	}
	return 500
}
