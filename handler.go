package bconduit

import "context"

// Handler is a synchronous, possibly blocking request handler. The same handler value serves all
// requests concurrently: any state it mutates must be synchronized by the handler itself, and it
// must keep working after an earlier call panicked halfway through such a mutation.
//
// The context carries request-scoped values such as the trace span. It is never cancelled.
type Handler interface {
	Call(ctx context.Context, r Request) (*Response, error)
}

// HandlerFunc allow casting a function to implement [Handler].
type HandlerFunc func(context.Context, Request) (*Response, error)

// Call implements the [Handler] interface.
func (f HandlerFunc) Call(ctx context.Context, r Request) (*Response, error) {
	return f(ctx, r)
}
