package fluxion

import (
	"errors"
	"fmt"
)

// Namespace prefixes every sentinel error the module exports.
const Namespace = "fluxion"

// ErrorKind closes the FluxionError taxonomy. There is deliberately no
// user-error variant: user code errors are always delivered to
// user-supplied callbacks, never collected here.
type ErrorKind int

const (
	// KindLockError means a shared-state acquisition failed or a
	// previously-panicked critical section was recovered.
	KindLockError ErrorKind = iota
	// KindStreamProcessingError is the generic internal-failure bucket,
	// including the timeout operator's emitted errors.
	KindStreamProcessingError
	// KindChannelSend means a send to an internal channel failed (the
	// receiving side was torn down concurrently).
	KindChannelSend
)

func (k ErrorKind) String() string {
	switch k {
	case KindLockError:
		return "LockError"
	case KindStreamProcessingError:
		return "StreamProcessingError"
	case KindChannelSend:
		return "ChannelSendError"
	default:
		return "UnknownError"
	}
}

// FluxionError is the library's own, closed error type. It never wraps user
// errors: StreamItem.Error is library-internal. It carries a context string,
// an optional wrapped cause, and a verb-aware Format.
type FluxionError struct {
	Kind    ErrorKind
	Context string
	cause   error
}

func newFluxionError(kind ErrorKind, context string, cause error) *FluxionError {
	return &FluxionError{Kind: kind, Context: context, cause: cause}
}

// LockError builds a KindLockError with the given context string.
func LockError(context string) *FluxionError {
	return newFluxionError(KindLockError, context, nil)
}

// StreamProcessingError builds a KindStreamProcessingError with the given
// context string.
func StreamProcessingError(context string) *FluxionError {
	return newFluxionError(KindStreamProcessingError, context, nil)
}

// ChannelSendError builds a KindChannelSend error with the given context.
func ChannelSendError(context string) *FluxionError {
	return newFluxionError(KindChannelSend, context, nil)
}

func (e *FluxionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", Namespace, e.Kind, e.Context, e.cause)
	}
	return fmt.Sprintf("%s: %s: %s", Namespace, e.Kind, e.Context)
}

func (e *FluxionError) Unwrap() error { return e.cause }

// Format implements fmt.Formatter: %+v includes the wrapped cause, plain
// %v/%s stay terse.
func (e *FluxionError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s(context=%s): %v", e.Kind, e.Context, e.cause)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// Sentinel errors for setup-time failures. They are never carried in
// StreamItem.Error, and no function in this module returns them.
var (
	ErrSubjectClosed     = errors.New(Namespace + ": subject is closed")
	ErrInvalidConfig     = errors.New(Namespace + ": invalid configuration")
	ErrNoSources         = errors.New(Namespace + ": at least one source is required")
	ErrSpawnerRequired   = errors.New(Namespace + ": this operator requires a Spawner")
	ErrConflictingOption = errors.New(Namespace + ": conflicting options supplied")
)
