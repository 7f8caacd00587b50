package bserve

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/advdv/bconduit"
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Server is a transport that serves on a listener until it is shut down.
type Server interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// ServiceConfig holds optional configuration for the service.
type ServiceConfig struct {
	// Middleware wraps the handler inside the access log.
	Middleware []bconduit.Middleware
}

// ServiceParams holds the dependencies for creating the service.
type ServiceParams struct {
	fx.In

	Env        Environment
	Handler    bconduit.Handler
	Config     ServiceConfig
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Registry   *prometheus.Registry
}

// NewService creates the service with access logging, metrics and tracing. Its worker pool is
// closed when the app stops, after the servers have shut down.
func NewService(lc fx.Lifecycle, params ServiceParams) *bconduit.Service {
	mw := append([]bconduit.Middleware{AccessLog(params.Logger)}, params.Config.Middleware...)

	svc := bconduit.NewWith(
		bconduit.Wrap(params.Handler, mw...),
		params.Env.threads(),
		bconduit.NewZapLogger(params.Logger),
		bconduit.WithQueueSize(params.Env.queueSize()),
		bconduit.WithMetrics(bconduit.NewMetrics(params.Registry)),
		bconduit.WithTracerProvider(params.TracerProv),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			svc.Close()
			return nil
		},
	})

	return svc
}

// NewRegistry creates the Prometheus registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ServerParams holds the dependencies for creating the server.
type ServerParams struct {
	fx.In

	Env        Environment
	Service    *bconduit.Service
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates the server for the configured transport. The net/http transport is traced
// with otelhttp and accepts HTTP/2 without TLS.
func NewServer(params ServerParams) Server {
	if params.Env.transport() == TransportFastHTTP {
		return fastServer{params.Service.NewFastServer()}
	}

	srv := params.Service.NewServer(params.Env.addr())
	srv.Handler = withTracing(params.TracerProv, params.Propagator, params.Env.serviceName())(srv.Handler)
	return srv
}

// fastServer adapts fasthttp's shutdown to a context.
type fastServer struct{ *fasthttp.Server }

func (s fastServer) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.Server.Shutdown() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Listeners reports the addresses the app is listening on once it has started.
type Listeners struct {
	mu      sync.Mutex
	server  net.Addr
	metrics net.Addr
}

// ServerAddr returns the address of the main server or the empty string before start.
func (l *Listeners) ServerAddr() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.server == nil {
		return ""
	}
	return l.server.String()
}

// MetricsAddr returns the address of the metrics server or the empty string when it is disabled.
func (l *Listeners) MetricsAddr() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.metrics == nil {
		return ""
	}
	return l.metrics.String()
}

// startServerHook registers lifecycle hooks for the server.
func startServerHook(lc fx.Lifecycle, env Environment, server Server, ls *Listeners, logger *zap.Logger) {
	lc.Append(serveHook(env.addr(), server, logger.With(zap.String("transport", env.transport())),
		func(addr net.Addr) {
			ls.mu.Lock()
			ls.server = addr
			ls.mu.Unlock()
		}))
}

// startMetricsHook serves /metrics and /healthz on BCONDUIT_METRICS_ADDR when it is set.
func startMetricsHook(lc fx.Lifecycle, env Environment, reg *prometheus.Registry, ls *Listeners, logger *zap.Logger) {
	if env.metricsAddr() == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", defaultHealthHandler)

	lc.Append(serveHook(env.metricsAddr(), &http.Server{Handler: mux}, logger.Named("metrics"),
		func(addr net.Addr) {
			ls.mu.Lock()
			ls.metrics = addr
			ls.mu.Unlock()
		}))
}

func serveHook(addr string, server Server, logger *zap.Logger, bound func(net.Addr)) fx.Hook {
	return fx.Hook{
		OnStart: func(ctx context.Context) error {
			var lc net.ListenConfig
			ln, err := lc.Listen(ctx, "tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on %s", addr)
			}

			bound(ln.Addr())
			logger.Info("starting server", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
