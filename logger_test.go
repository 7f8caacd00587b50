package bconduit_test

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"testing"

	"github.com/advdv/bconduit"
	"github.com/advdv/bconduit/internal/example"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logs := bconduit.NewStdLogger(log.New(&buf, "", 0))

	logs.LogInternalServerError(errors.New("a"))
	logs.LogTransportError(errors.New("b"))
	logs.LogServerError(errors.New("c"))

	require.Equal(t, "bconduit: Internal Server Error: a\n"+
		"bconduit: transport error: b\n"+
		"bconduit: server error: c\n", buf.String())
}

func TestZapLoggerPanic(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	svc := bconduit.NewWith(example.Panics("boom"), 1, bconduit.NewZapLogger(zap.New(core)))
	t.Cleanup(svc.Close)

	out := svc.Serve(context.Background(), &bconduit.IncomingRequest{Method: http.MethodGet, Path: "/"})
	require.Equal(t, http.StatusInternalServerError, out.Status)

	entries := obs.FilterMessage("Internal Server Error").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	require.Equal(t, "bconduit", entries[0].LoggerName)

	fields := entries[0].ContextMap()
	require.Equal(t, "handler_panic", fields["kind"])
	require.Equal(t, "boom", fields["panic"])
	require.Contains(t, fields["error"], bconduit.HandlerPanicMessage)
}

func TestZapLoggerHandlerError(t *testing.T) {
	core, obs := observer.New(zapcore.DebugLevel)
	logs := bconduit.NewZapLogger(zap.New(core))

	logs.LogInternalServerError(bconduit.NewError(bconduit.KindHandler, errors.New("bad state")))
	logs.LogTransportError(errors.New("conn reset"))
	logs.LogServerError(errors.New("listen failed"))

	all := obs.All()
	require.Len(t, all, 3)

	require.Equal(t, "handler", all[0].ContextMap()["kind"])
	require.NotContains(t, all[0].ContextMap(), "panic")
	require.Equal(t, "handler: bad state", all[0].ContextMap()["error"])

	require.Equal(t, zapcore.WarnLevel, all[1].Level)
	require.Equal(t, "transport error", all[1].Message)
	require.Equal(t, zapcore.ErrorLevel, all[2].Level)
	require.Equal(t, "server error", all[2].Message)
}
