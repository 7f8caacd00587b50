package bconduit

import (
	"io"
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildResponseMultiValueHeaders(t *testing.T) {
	resp := NewResponse(http.StatusNotFound, StringBody("nope")).
		AddHeader("X-Test", "a").
		AddHeader("X-Test", "b").
		AddHeader("Content-Type", "text/plain")

	out, err := buildResponse(resp)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, out.Status)
	require.Equal(t, []string{"a", "b"}, out.Values("X-Test"))
	require.Equal(t, []HeaderLine{
		{Key: "Content-Type", Value: "text/plain"},
		{Key: "X-Test", Value: "a"},
		{Key: "X-Test", Value: "b"},
	}, out.Header)
	require.Equal(t, "nope", string(out.Body))
}

func TestBuildResponseNilBody(t *testing.T) {
	out, err := buildResponse(&Response{Status: http.StatusNoContent})
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, out.Status)
	require.Empty(t, out.Body)
	require.Empty(t, out.Header)
}

func TestBuildResponseFailures(t *testing.T) {
	for _, tt := range []struct {
		name string
		resp *Response
		msg  string
	}{
		{"no response", nil, "handler returned no response"},
		{"status too low", &Response{Status: 99}, "invalid status code: 99"},
		{"status too high", &Response{Status: 600}, "invalid status code: 600"},
		{"informational status", &Response{Status: http.StatusEarlyHints}, "informational status code: 103"},
		{"body write", &Response{Status: 200, Body: BodyFunc(func(io.Writer) error {
			return errors.New("disk on fire")
		})}, "body write failed: disk on fire"},
		{"header name", (&Response{Status: 200}).AddHeader("Bad Header", "x"), `invalid header name: "Bad Header"`},
		{"header value", (&Response{Status: 200}).AddHeader("X-Ok", "a\r\nb"), `invalid value for header "X-Ok"`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			out, err := buildResponse(tt.resp)
			require.Nil(t, out)
			require.Error(t, err)
			require.Equal(t, KindResponse, KindOf(err))
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBuildResponseBodyIsNotShared(t *testing.T) {
	out1, err := buildResponse(NewResponse(200, StringBody("first")))
	require.NoError(t, err)
	out2, err := buildResponse(NewResponse(200, StringBody("second")))
	require.NoError(t, err)

	require.Equal(t, "first", string(out1.Body))
	require.Equal(t, "second", string(out2.Body))
}

func TestErrorResponse(t *testing.T) {
	logs := NewTestLogger(t)

	out := errorResponse(logs, NewError(KindHandler, errors.New("bad state")))
	require.Equal(t, http.StatusInternalServerError, out.Status)
	require.Equal(t, "Internal Server Error", string(out.Body))
	require.Empty(t, out.Header)
	require.Equal(t, int64(1), logs.NumLogInternalServerError)
	require.Contains(t, logs.Messages()[0], "bad state")

	out.Body[0] = 'X'
	require.Equal(t, "Internal Server Error", string(errorResponse(logs, errors.New("again")).Body))
}
