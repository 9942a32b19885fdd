// Package apierr defines the transport-independent error kinds shared by the
// coordinator, the node agent and the gateway. Handlers at each transport
// edge (HTTP, gRPC) map a Kind to their own status codes; callers inside
// the system compare the Kind returned by KindOf against the exported Kind
// constants rather than matching on error strings.
package apierr

import "fmt"

// Kind is a machine-readable error classification.
type Kind string

const (
	BadRequest          Kind = "BAD_REQUEST"
	Unauthorized        Kind = "UNAUTHORIZED"
	Forbidden           Kind = "FORBIDDEN"
	NotFound            Kind = "NOT_FOUND"
	Conflict            Kind = "CONFLICT"
	TooManyRequests     Kind = "TOO_MANY_REQUESTS"
	Paused              Kind = "PAUSED"
	InsufficientStake   Kind = "INSUFFICIENT_STAKE"
	InsufficientDeposit Kind = "INSUFFICIENT_DEPOSIT"
	NotAssigned         Kind = "NOT_ASSIGNED"
	TaskNotActive       Kind = "TASK_NOT_ACTIVE"
	TaskTimedOut        Kind = "TASK_TIMED_OUT"
	InsufficientBalance Kind = "INSUFFICIENT_BALANCE"
	Internal            Kind = "INTERNAL"
)

// Error is the concrete error type carried across package boundaries. It
// keeps a machine-readable Kind and a human-readable Message, and optionally
// wraps an underlying cause for logging (never surfaced to external callers).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given Kind around an existing cause. Use this
// at a boundary where the underlying error (e.g. a driver error, a parse
// failure) must not leak its internal detail to external callers — the
// message is collapsed to something safe while Cause is kept for logging.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, defaulting
// to Internal for anything else.
func KindOf(err error) Kind {
	type kinder interface{ Unwrap() error }
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(kinder)
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return Internal
}
