package bserve

import (
	"net/http"

	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies. Inject it into handler constructors via fx.
//
// Example:
//
//	func NewHandler(rt *bserve.Runtime[Env]) bconduit.Handler {
//	    return bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
//	        var user User
//	        if err := rt.NewRequest().BaseURL(rt.Env().UsersURL).ToJSON(&user).Fetch(ctx); err != nil {
//	            return nil, err
//	        }
//	        // ...
//	    })
//	}
type Runtime[E Environment] struct {
	env       E
	transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, transport http.RoundTripper) *Runtime[E] {
	return &Runtime[E]{env: env, transport: transport}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// NewRequest returns a fresh request builder that sends through the instrumented transport.
// Pass the handler's context to Fetch so the outbound call joins its trace.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return newRequestBuilder(r.transport)
}
