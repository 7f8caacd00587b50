package bconduit

import (
	"bytes"
	"net/http"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"golang.org/x/net/http/httpguts"
)

const internalServerErrorBody = "Internal Server Error"

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// buildResponse turns a handler response into a wire response. Any part that cannot be
// represented on the wire fails the whole response, callers answer with [errorResponse] instead.
func buildResponse(resp *Response) (*OutgoingResponse, error) {
	if resp == nil {
		return nil, NewError(KindResponse, errors.New("handler returned no response"))
	}

	buf := bufPool.Get().(*bytes.Buffer) //nolint:forcetypeassert
	buf.Reset()
	defer bufPool.Put(buf)

	if resp.Body != nil {
		if err := resp.Body.WriteBody(buf); err != nil {
			return nil, NewError(KindResponse, errors.Wrap(err, "body write failed"))
		}
	}

	if resp.Status < 100 || resp.Status > 599 {
		return nil, NewError(KindResponse, errors.Newf("invalid status code: %d", resp.Status))
	}

	// An informational status is sent as an interim response, never as the final one.
	if resp.Status < 200 {
		return nil, NewError(KindResponse, errors.Newf("informational status code: %d", resp.Status))
	}

	keys := lo.Keys(resp.Header)
	slices.Sort(keys)

	var lines []HeaderLine
	for _, key := range keys {
		if !httpguts.ValidHeaderFieldName(key) {
			return nil, NewError(KindResponse, errors.Newf("invalid header name: %q", key))
		}

		for _, val := range resp.Header[key] {
			if !httpguts.ValidHeaderFieldValue(val) {
				return nil, NewError(KindResponse, errors.Newf("invalid value for header %q", key))
			}

			lines = append(lines, HeaderLine{Key: key, Value: val})
		}
	}

	return &OutgoingResponse{
		Status: resp.Status,
		Header: lines,
		Body:   bytes.Clone(buf.Bytes()),
	}, nil
}

// errorResponse logs err and returns the fixed fallback response. It takes no input that could
// make it fail.
func errorResponse(logs Logger, err error) *OutgoingResponse {
	logs.LogInternalServerError(err)

	return &OutgoingResponse{
		Status: http.StatusInternalServerError,
		Body:   []byte(internalServerErrorBody),
	}
}
