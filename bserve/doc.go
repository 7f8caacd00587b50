// Package bserve runs a [bconduit.Handler] as a complete server process.
//
// # Overview
//
// bserve handles the boilerplate around a [bconduit.Service]: configuration, structured logging,
// OpenTelemetry tracing, Prometheus metrics and graceful shutdown. A complete application can be
// created in a single call:
//
//	bserve.NewApp[Env](NewHandler,
//	    bserve.WithFx(fx.Provide(NewStore)),
//	).Run()
//
// The handler is either a [bconduit.Handler] value or an fx constructor returning one.
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bserve.BaseEnvironment
//	    UsersURL string `env:"USERS_URL,required"`
//	}
//
// BaseEnvironment provides the following variables:
//
//	| Variable                | Required | Default  | Description                                  |
//	|-------------------------|----------|----------|----------------------------------------------|
//	| BCONDUIT_ADDR           | Yes      | -        | Address the server listens on                |
//	| BCONDUIT_THREADS        | No       | 8        | Number of handler worker goroutines          |
//	| BCONDUIT_QUEUE_SIZE     | No       | threads  | Requests waiting for a free worker           |
//	| BCONDUIT_TRANSPORT      | No       | nethttp  | "nethttp" (with h2c) or "fasthttp"           |
//	| BCONDUIT_SERVICE_NAME   | No       | bconduit | Service name for tracing                     |
//	| BCONDUIT_LOG_LEVEL      | No       | info     | Log level (debug, info, warn, error)         |
//	| BCONDUIT_OTEL_EXPORTER  | No       | none     | Trace exporter: "none" or "stdout"           |
//	| BCONDUIT_METRICS_ADDR   | No       | -        | Serves /metrics and /healthz when set        |
//	| BCONDUIT_CONFIG_FILE    | No       | -        | YAML file with base values for the above     |
//
// Values are layered. A .env file in the working directory is read first, the YAML file named by
// BCONDUIT_CONFIG_FILE overrides it and the process environment overrides both. The YAML file is
// a flat mapping from variable name to value:
//
//	BCONDUIT_ADDR: ":8080"
//	BCONDUIT_THREADS: 16
//
// # Runtime
//
// [Runtime] gives handler constructors the typed environment and an outbound request builder
// whose transport is traced with the same provider as the server:
//
//	func NewHandler(rt *bserve.Runtime[Env]) bconduit.Handler { ... }
//
// The instrumented [http.RoundTripper] and [*http.Client] can be injected directly as well.
//
// # Logging
//
// Logs are JSON through zap. Every handler call is wrapped by [AccessLog], which also stores a
// request-scoped logger in the request extensions; handlers read it with [Log].
//
// # Testing
//
// For integration tests that need the full DI graph, use [bservetest.New]. The test environment
// listens on a random port, populate [Listeners] to find it:
//
//	bservetest.SetBaseEnv(t)
//	var ls *bserve.Listeners
//	app := bservetest.New[Env](t, NewHandler, bserve.WithFx(fx.Populate(&ls)))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//
// # Shutdown
//
// On stop the servers shut down first, then the worker pool is closed once every queued request
// has been answered, then the tracer provider is flushed.
package bserve
