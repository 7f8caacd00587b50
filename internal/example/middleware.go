// Package example implements example handlers and middleware in an outside package.
package example

import (
	"context"
	"log/slog"

	"github.com/advdv/bconduit"
)

// extKey type scopes extension values.
type extKey string

// Middleware provides an example for middleware that adds a logger to the request extensions.
func Middleware(logs *slog.Logger) bconduit.Middleware {
	return func(n bconduit.Handler) bconduit.Handler {
		return bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
			r.Extensions().Set(extKey("slog"), logs.With(slog.String("method", r.Method().String())))

			return n.Call(ctx, r)
		})
	}
}

// Log returns the logger stored by [Middleware], or nil.
func Log(r bconduit.Request) *slog.Logger {
	v, _ := bconduit.ExtensionValue[*slog.Logger](r.Extensions(), extKey("slog"))

	return v
}
