package bconduit_test

import (
	"fmt"
	"testing"

	"github.com/advdv/bconduit"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	err1 := bconduit.NewError(bconduit.KindHandler, errors.New("foo"))
	require.Equal(t, bconduit.KindHandler, err1.Kind())
	require.Equal(t, bconduit.KindHandler, bconduit.KindOf(err1))
	require.Equal(t, "handler: foo", err1.Error())
	require.ErrorIs(t, err1, err1.Unwrap())

	require.Equal(t, bconduit.KindUnknown, bconduit.KindOf(errors.New("bar")))
	require.Equal(t, "unknown: rab", bconduit.NewError(900, errors.New("rab")).Error())
}

func TestErrorKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", bconduit.NewError(bconduit.KindTransport, errors.New("reset")))
	require.Equal(t, bconduit.KindTransport, bconduit.KindOf(err))

	err = errors.Wrap(bconduit.NewError(bconduit.KindResponse, errors.New("bad header")), "build")
	require.Equal(t, bconduit.KindResponse, bconduit.KindOf(err))
}

func TestKindString(t *testing.T) {
	for kind, exp := range map[bconduit.Kind]string{
		bconduit.KindUnknown:      "unknown",
		bconduit.KindTransport:    "transport",
		bconduit.KindHandlerPanic: "handler_panic",
		bconduit.KindHandler:      "handler",
		bconduit.KindResponse:     "response",
	} {
		require.Equal(t, exp, kind.String())
	}
}

func TestPanicValueOf(t *testing.T) {
	_, ok := bconduit.PanicValueOf(errors.New("plain"))
	require.False(t, ok)

	_, ok = bconduit.PanicValueOf(bconduit.NewError(bconduit.KindHandler, errors.New("not a panic")))
	require.False(t, ok)
}
