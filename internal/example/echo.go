package example

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/advdv/bconduit"
)

// Echo answers with a plain-text description of the request followed by its body.
func Echo() bconduit.Handler {
	return bconduit.HandlerFunc(func(_ context.Context, r bconduit.Request) (*bconduit.Response, error) {
		body, err := io.ReadAll(r.Body())
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}

		query, _ := r.QueryString()
		return bconduit.NewResponse(http.StatusOK, bconduit.StringBody(fmt.Sprintf(
			"%s %s?%s HTTP/%s host=%s\n%s",
			r.Method(), r.Path(), query, r.HTTPVersion(), r.Host(), body,
		))).AddHeader("Content-Type", "text/plain; charset=utf-8"), nil
	})
}

// Panics always panics with msg.
func Panics(msg string) bconduit.Handler {
	return bconduit.HandlerFunc(func(context.Context, bconduit.Request) (*bconduit.Response, error) {
		panic(msg)
	})
}
