package bconduit

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	// LogInternalServerError is called once for every request answered with the fallback response.
	LogInternalServerError(err error)
	// LogTransportError is called for connection-scoped failures reported by the transport.
	LogTransportError(err error)
	// LogServerError is called when the server stops serving because of a fatal error.
	LogServerError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogInternalServerError(err error) {
	l.Logger.Printf("bconduit: Internal Server Error: %s", err)
}

func (l stdLogger) LogTransportError(err error) {
	l.Logger.Printf("bconduit: transport error: %s", err)
}

func (l stdLogger) LogServerError(err error) {
	l.Logger.Printf("bconduit: server error: %s", err)
}

// NewStdLogger logs through a standard library logger. A nil logger means log.Default().
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogInternalServerError(err error) {
	fields := []zap.Field{zap.String("kind", KindOf(err).String()), zap.Error(err)}
	if v, ok := PanicValueOf(err); ok {
		fields = append(fields, zap.String("panic", fmt.Sprint(v)))
	}

	l.Logger.Error("Internal Server Error", fields...)
}

func (l zapLogger) LogTransportError(err error) {
	l.Logger.Warn("transport error", zap.Error(err))
}

func (l zapLogger) LogServerError(err error) {
	l.Logger.Error("server error", zap.Error(err))
}

// NewZapLogger logs through a zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("bconduit")}
}

// TestLogger counts and records every log call so tests can assert on them.
type TestLogger struct {
	tb testing.TB

	NumLogInternalServerError int64
	NumLogTransportError      int64
	NumLogServerError         int64

	mu       sync.Mutex
	messages []string
}

// NewTestLogger creates a TestLogger that also logs to tb, if it is not nil.
func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogInternalServerError(err error) {
	atomic.AddInt64(&l.NumLogInternalServerError, 1)
	l.record("bconduit: Internal Server Error: %s", err)
}

func (l *TestLogger) LogTransportError(err error) {
	atomic.AddInt64(&l.NumLogTransportError, 1)
	l.record("bconduit: transport error: %s", err)
}

func (l *TestLogger) LogServerError(err error) {
	atomic.AddInt64(&l.NumLogServerError, 1)
	l.record("bconduit: server error: %s", err)
}

// Messages returns a copy of every message logged so far.
func (l *TestLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.messages...)
}

func (l *TestLogger) record(format string, err error) {
	msg := fmt.Sprintf(format, err)

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	if l.tb != nil {
		l.tb.Logf("%s", msg)
	}
}

var _ Logger = &TestLogger{}
