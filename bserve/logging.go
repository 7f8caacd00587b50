package bserve

import (
	"context"
	"time"

	"github.com/advdv/bconduit"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger configured from the environment.
// BCONDUIT_LOG_LEVEL controls the level (debug, info, warn, error).
func NewLogger(env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

type extKey int

const extKeyLogger extKey = iota

// Log returns the request-scoped logger installed by [AccessLog]. Without it, a no-op logger is
// returned so handlers can always log.
func Log(r bconduit.Request) *zap.Logger {
	if l, ok := bconduit.ExtensionValue[*zap.Logger](r.Extensions(), extKeyLogger); ok {
		return l
	}
	return zap.NewNop()
}

// AccessLog logs every handler call once it returns. It also stores a logger with the request's
// method, path and trace id in the request extensions, see [Log].
func AccessLog(logs *zap.Logger) bconduit.Middleware {
	return func(next bconduit.Handler) bconduit.Handler {
		return bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
			fields := []zap.Field{
				zap.String("method", r.Method().String()),
				zap.String("path", r.Path()),
			}
			if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
				fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
			}

			reqLogs := logs.With(fields...)
			r.Extensions().Set(extKeyLogger, reqLogs)

			n, _ := r.ContentLength()
			start := time.Now()
			resp, err := next.Call(ctx, r)

			switch {
			case err != nil:
				reqLogs.Info("handler returned error",
					zap.Duration("duration", time.Since(start)),
					zap.String("request_size", humanize.Bytes(uint64(n))))
			case resp != nil:
				reqLogs.Info("handled request",
					zap.Int("status", resp.Status),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_size", humanize.Bytes(uint64(n))))
			}

			return resp, err
		})
	}
}
