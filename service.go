package bconduit

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/advdv/bconduit"

// Service serves a [Handler] on a fixed-size worker pool. A *Service is the shared handle: all
// transports and accept loops use the same pool and the same handler, neither is ever replaced.
type Service struct {
	handler Handler
	pool    *workerPool
	logs    Logger
	metrics *Metrics
	tracer  trace.Tracer
}

type serviceConfig struct {
	queueSize      int
	metrics        *Metrics
	tracerProvider trace.TracerProvider
}

// Option configures a Service.
type Option func(*serviceConfig)

// WithQueueSize bounds the number of requests waiting for a free worker. Once the queue is full,
// dispatching blocks the calling connection until a worker frees a slot. Defaults to the number
// of threads.
func WithQueueSize(n int) Option {
	return func(c *serviceConfig) { c.queueSize = n }
}

// WithMetrics records request outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// WithTracerProvider creates a span around every handler call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *serviceConfig) { c.tracerProvider = tp }
}

// New creates a multi-threaded Service from a Handler with default settings.
func New(h Handler, threads int) *Service {
	return NewWith(h, threads, NewStdLogger(nil))
}

// NewWith creates a Service with custom settings.
func NewWith(h Handler, threads int, logs Logger, opts ...Option) *Service {
	cfg := serviceConfig{queueSize: threads, tracerProvider: noop.NewTracerProvider()}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Service{
		handler: h,
		pool:    newWorkerPool(threads, cfg.queueSize),
		logs:    logs,
		metrics: cfg.metrics,
		tracer:  cfg.tracerProvider.Tracer(tracerName),
	}
}

// Serve dispatches a buffered request onto the worker pool and waits for its response. It always
// returns a response, the fallback if anything went wrong.
func (s *Service) Serve(ctx context.Context, in *IncomingRequest) *OutgoingResponse {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	done := make(chan *OutgoingResponse, 1)

	s.metrics.enter(StageDispatched)
	if err := s.pool.submit(func() {
		s.metrics.leave(StageDispatched)
		done <- s.call(ctx, in)
	}); err != nil {
		s.metrics.leave(StageDispatched)
		return s.fallback(NewError(KindTransport, errors.Wrap(err, "dispatch request")))
	}

	out := <-done
	s.metrics.observe(time.Since(start))

	return out
}

// Close stops the worker pool once every queued request has been answered. Requests served after
// Close receive the fallback response.
func (s *Service) Close() {
	s.pool.close()
}

// call runs on a worker. A panic in the handler, or in the body it returned, ends here: the
// request and everything the handler built for it are dropped and the fallback is returned.
func (s *Service) call(ctx context.Context, in *IncomingRequest) (out *OutgoingResponse) {
	ctx, span := s.tracer.Start(ctx, "bconduit.handler", trace.WithAttributes(
		attribute.String("http.request.method", in.Method),
	))
	defer span.End()

	s.metrics.enter(StageHandlerRunning)
	defer s.metrics.leave(StageHandlerRunning)

	stage := StageHandlerFailed
	defer func() {
		if v := recover(); v != nil {
			stage = StageHandlerFailed
			span.SetStatus(codes.Error, HandlerPanicMessage)
			out = s.fallback(newPanicError(v))
		}

		s.metrics.handled(stage)
	}()

	resp, err := s.handler.Call(ctx, newAdaptedRequest(in))
	if err != nil {
		stage = StageHandlerReturnedError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return s.fallback(NewError(KindHandler, err))
	}

	stage = StageHandlerSucceeded
	out, err = buildResponse(resp)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return s.fallback(err)
	}

	return out
}

func (s *Service) fallback(err error) *OutgoingResponse {
	s.metrics.fallback(KindOf(err))
	return errorResponse(s.logs, err)
}
