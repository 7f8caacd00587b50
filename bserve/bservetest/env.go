package bservetest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [bserve.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [bserve.BaseEnvironment] env vars to sensible test defaults.
// The server listens on a random local port; read it from [bserve.Listeners].
//
// Defaults:
//   - BCONDUIT_ADDR: "127.0.0.1:0"
//   - BCONDUIT_THREADS: "2"
//   - BCONDUIT_TRANSPORT: "nethttp"
//   - BCONDUIT_SERVICE_NAME: "test"
//   - BCONDUIT_LOG_LEVEL: "error"
//   - BCONDUIT_OTEL_EXPORTER: "none"
//
// Use the returned [Env] to override individual values:
//
//	bservetest.SetBaseEnv(t).Transport("fasthttp").Threads(4)
func SetBaseEnv(t testing.TB) *Env {
	t.Helper()
	t.Setenv("BCONDUIT_ADDR", "127.0.0.1:0")
	t.Setenv("BCONDUIT_THREADS", "2")
	t.Setenv("BCONDUIT_TRANSPORT", "nethttp")
	t.Setenv("BCONDUIT_SERVICE_NAME", "test")
	t.Setenv("BCONDUIT_LOG_LEVEL", "error")
	t.Setenv("BCONDUIT_OTEL_EXPORTER", "none")
	return &Env{t: t}
}

// Threads overrides BCONDUIT_THREADS.
func (e *Env) Threads(n int) *Env {
	e.t.Helper()
	e.t.Setenv("BCONDUIT_THREADS", strconv.Itoa(n))
	return e
}

// Transport overrides BCONDUIT_TRANSPORT.
func (e *Env) Transport(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BCONDUIT_TRANSPORT", name)
	return e
}

// ServiceName overrides BCONDUIT_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BCONDUIT_SERVICE_NAME", name)
	return e
}

// MetricsAddr enables the metrics server on a random local port.
func (e *Env) MetricsAddr() *Env {
	e.t.Helper()
	e.t.Setenv("BCONDUIT_METRICS_ADDR", "127.0.0.1:0")
	return e
}
