package bconduit

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind classifies why a request ended in the fallback response. Every kind is identical to the
// client; kinds only differ in server-side logs and metrics.
type Kind int

const (
	KindUnknown   Kind = iota
	KindTransport      // network or protocol I/O failure
	KindHandlerPanic   // the handler panicked
	KindHandler        // the handler returned an error
	KindResponse       // the handler's response cannot be represented on the wire
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHandlerPanic:
		return "handler_panic"
	case KindHandler:
		return "handler"
	case KindResponse:
		return "response"
	default:
		return "unknown"
	}
}

// HandlerPanicMessage is logged whenever a handler panics. The panic value never reaches the client.
const HandlerPanicMessage = "application handler panicked"

// Error describes a failure that was converted into the fallback response.
type Error struct {
	kind  Kind
	err   error
	panic any
}

// NewError inits a new error of the given kind.
func NewError(k Kind, underlying error) *Error {
	return &Error{kind: k, err: underlying}
}

// newPanicError records a recovered panic value. The stack captured here still contains the
// panicking frames because it is created inside the deferred recover.
func newPanicError(v any) *Error {
	return &Error{kind: KindHandlerPanic, err: errors.New(HandlerPanicMessage), panic: v}
}

func (e *Error) Kind() Kind { return e.kind }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) PanicValue() any { return e.panic }

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err.Error())
}

// KindOf returns the kind of err if it is or wraps an [*Error] and [KindUnknown] otherwise.
func KindOf(err error) Kind {
	if e, ok := asError(err); ok {
		return e.Kind()
	}

	return KindUnknown
}

// PanicValueOf returns the recovered panic value if err describes a handler panic.
func PanicValueOf(err error) (any, bool) {
	e, ok := asError(err)
	if !ok || e.kind != KindHandlerPanic {
		return nil, false
	}

	return e.panic, true
}

func asError(err error) (*Error, bool) {
	var target *Error
	ok := errors.As(err, &target)
	return target, ok
}
