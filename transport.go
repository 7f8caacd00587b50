package bconduit

import (
	"bytes"
	"context"
	"io"
	"log"
	"math"
	"net/http"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/valyala/fasthttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServeHTTP makes the service implement the http.Handler interface. The body is read completely
// before the request is dispatched.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.metrics.enter(StageReceived)
	defer s.metrics.leave(StageReceived)

	s.metrics.enter(StageBodyBuffering)
	in, err := readIncoming(r)
	s.metrics.leave(StageBodyBuffering)

	var out *OutgoingResponse
	if err != nil {
		out = s.fallback(NewError(KindTransport, err))
	} else {
		out = s.Serve(r.Context(), in)
	}

	s.metrics.enter(StageResponseBuilt)
	err = out.writeStd(w)
	s.metrics.leave(StageResponseBuilt)

	if err != nil && !errors.Is(err, http.ErrBodyNotAllowed) {
		s.logs.LogTransportError(errors.Wrap(err, "write response"))
		return
	}

	s.metrics.sent()
}

// ServeFastHTTP serves the service as a fasthttp.RequestHandler. fasthttp has already buffered
// the body when the handler is called.
func (s *Service) ServeFastHTTP(ctx *fasthttp.RequestCtx) {
	s.metrics.enter(StageReceived)
	defer s.metrics.leave(StageReceived)

	out := s.Serve(context.Background(), incomingFromFastHTTP(ctx))

	s.metrics.enter(StageResponseBuilt)
	out.writeFast(ctx)
	s.metrics.leave(StageResponseBuilt)

	s.metrics.sent()
}

// NewServer returns a net/http server for the service that also accepts HTTP/2 without TLS.
func (s *Service) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:     addr,
		Handler:  h2c.NewHandler(s, &http2.Server{}),
		ErrorLog: log.New(transportLogWriter{s.logs}, "", 0),
	}
}

// NewFastServer returns a fasthttp server for the service. Request bodies are not limited in size.
func (s *Service) NewFastServer() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:            s.ServeFastHTTP,
		Logger:             fastLogger{s.logs},
		MaxRequestBodySize: math.MaxInt,
	}
}

// Run serves the service on addr and blocks. A fatal server error is logged, not returned.
func (s *Service) Run(addr string) {
	if err := s.NewServer(addr).ListenAndServe(); err != nil {
		s.logs.LogServerError(err)
	}
}

// RunFast is like [Service.Run] but serves through fasthttp.
func (s *Service) RunFast(addr string) {
	if err := s.NewFastServer().ListenAndServe(addr); err != nil {
		s.logs.LogServerError(err)
	}
}

func readIncoming(r *http.Request) (*IncomingRequest, error) {
	var body []byte
	if r.Body != nil {
		var err error
		if body, err = io.ReadAll(r.Body); err != nil {
			return nil, errors.Wrap(err, "read request body")
		}
	}

	in := &IncomingRequest{
		Method:     r.Method,
		Path:       r.URL.EscapedPath(),
		RawQuery:   r.URL.RawQuery,
		HasQuery:   r.URL.RawQuery != "" || r.URL.ForceQuery,
		ProtoMajor: r.ProtoMajor,
		ProtoMinor: r.ProtoMinor,
		Body:       body,
	}

	// net/http moves the Host header out of the header map.
	if r.Host != "" {
		in.Header = append(in.Header, HeaderField{Key: "Host", Value: []byte(r.Host)})
	}

	keys := lo.Keys(r.Header)
	slices.Sort(keys)
	for _, key := range keys {
		for _, val := range r.Header[key] {
			in.Header = append(in.Header, HeaderField{Key: key, Value: []byte(val)})
		}
	}

	return in, nil
}

func incomingFromFastHTTP(ctx *fasthttp.RequestCtx) *IncomingRequest {
	in := &IncomingRequest{
		Method:     string(ctx.Method()),
		Path:       string(ctx.URI().PathOriginal()),
		ProtoMajor: 1,
		Body:       bytes.Clone(ctx.PostBody()),
	}

	if ctx.Request.Header.IsHTTP11() {
		in.ProtoMinor = 1
	}

	if bytes.IndexByte(ctx.RequestURI(), '?') >= 0 {
		in.HasQuery = true
		in.RawQuery = string(ctx.URI().QueryString())
	}

	// fasthttp reuses its buffers once the handler returns.
	ctx.Request.Header.VisitAll(func(k, v []byte) {
		in.Header = append(in.Header, HeaderField{Key: string(k), Value: bytes.Clone(v)})
	})

	return in
}

func (o *OutgoingResponse) writeFast(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(o.Status)
	for _, l := range o.Header {
		ctx.Response.Header.Add(l.Key, l.Value)
	}

	ctx.SetBody(o.Body)
}

// transportLogWriter routes net/http server errors to the Logger.
type transportLogWriter struct{ logs Logger }

func (w transportLogWriter) Write(p []byte) (int, error) {
	w.logs.LogTransportError(errors.New(strings.TrimSpace(string(p))))
	return len(p), nil
}

// fastLogger routes fasthttp server errors to the Logger.
type fastLogger struct{ logs Logger }

func (l fastLogger) Printf(format string, args ...any) {
	l.logs.LogTransportError(errors.Newf(format, args...))
}
