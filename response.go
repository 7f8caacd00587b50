package bconduit

import (
	"io"
	"net/http"
)

// Body streams a response body into the output buffer.
type Body interface {
	WriteBody(w io.Writer) error
}

// BodyFunc allow casting a function to implement [Body].
type BodyFunc func(w io.Writer) error

// WriteBody implements the [Body] interface.
func (f BodyFunc) WriteBody(w io.Writer) error { return f(w) }

// BytesBody returns a body that writes b.
func BytesBody(b []byte) Body {
	return BodyFunc(func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	})
}

// StringBody returns a body that writes s.
func StringBody(s string) Body {
	return BodyFunc(func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// ReaderBody returns a body that copies everything from r.
func ReaderBody(r io.Reader) Body {
	return BodyFunc(func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// Response is what a [Handler] produces. Header values are written in slice order and a key with
// several values yields one header line per value. A nil Body is an empty body.
type Response struct {
	Status int
	Header map[string][]string
	Body   Body
}

// NewResponse inits a response with an empty header map.
func NewResponse(status int, body Body) *Response {
	return &Response{Status: status, Header: map[string][]string{}, Body: body}
}

// AddHeader appends a value to the header key.
func (r *Response) AddHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = map[string][]string{}
	}

	r.Header[key] = append(r.Header[key], value)
	return r
}

// HeaderLine is one header line on the wire. A key may repeat.
type HeaderLine struct {
	Key   string
	Value string
}

// OutgoingResponse is the response handed back to the transport.
type OutgoingResponse struct {
	Status int
	Header []HeaderLine
	Body   []byte
}

// Values returns the values of every line with the given key, in order.
func (o *OutgoingResponse) Values(key string) (vals []string) {
	for _, l := range o.Header {
		if http.CanonicalHeaderKey(l.Key) == http.CanonicalHeaderKey(key) {
			vals = append(vals, l.Value)
		}
	}

	return vals
}

// writeStd writes the response through a net/http response writer.
func (o *OutgoingResponse) writeStd(w http.ResponseWriter) error {
	hdr := w.Header()
	for _, l := range o.Header {
		hdr.Add(l.Key, l.Value)
	}

	w.WriteHeader(o.Status)
	_, err := w.Write(o.Body)
	return err
}
