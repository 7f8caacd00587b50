package bconduit

import (
	"bytes"
	"io"
	"net/netip"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"
)

// Scheme is the URL scheme a request arrived on.
type Scheme int

// SchemeHTTP is the only scheme reported.
const SchemeHTTP Scheme = iota

func (Scheme) String() string {
	return "http"
}

// Request is the fully materialized request a [Handler] receives. It is only valid for the
// duration of one handler call.
type Request interface {
	HTTPVersion() *semver.Version
	ContractVersion() *semver.Version
	Method() Method
	// Scheme is always [SchemeHTTP]: TLS termination state is not visible at this layer.
	Scheme() Scheme
	Headers() Headers
	// ContentLength is the length of the buffered body. It is always known.
	ContentLength() (int64, bool)
	// RemoteAddr is always 0.0.0.0:0: the peer address is not visible at this layer.
	RemoteAddr() netip.AddrPort
	VirtualRoot() (string, bool)
	Path() string
	QueryString() (string, bool)
	// Host returns the Host header or the empty string.
	Host() string
	Extensions() *Extensions
	// Body returns a reader positioned at the start of the body. Every call rewinds, so each
	// call yields the full content.
	Body() io.Reader
}

// IncomingRequest is the transport-neutral request with its body fully buffered.
type IncomingRequest struct {
	Method     string
	Path       string
	RawQuery   string
	HasQuery   bool
	ProtoMajor int
	ProtoMinor int
	Header     []HeaderField
	Body       []byte
}

type adaptedRequest struct {
	in      *IncomingRequest
	headers *headerView
	body    *bytes.Reader
	exts    *Extensions
}

func newAdaptedRequest(in *IncomingRequest) *adaptedRequest {
	return &adaptedRequest{
		in:      in,
		headers: newHeaderView(in.Header),
		body:    bytes.NewReader(in.Body),
		exts:    newExtensions(),
	}
}

func (r *adaptedRequest) HTTPVersion() *semver.Version {
	return httpVersion(r.in.ProtoMajor, r.in.ProtoMinor)
}

func (r *adaptedRequest) ContractVersion() *semver.Version { return contractVersion }
func (r *adaptedRequest) Method() Method { return ParseMethod(r.in.Method) }
func (r *adaptedRequest) Scheme() Scheme { return SchemeHTTP }
func (r *adaptedRequest) Headers() Headers { return r.headers }
func (r *adaptedRequest) VirtualRoot() (string, bool) { return "", false }
func (r *adaptedRequest) Path() string { return r.in.Path }
func (r *adaptedRequest) Extensions() *Extensions { return r.exts }
func (r *adaptedRequest) Host() string { return r.headers.first("Host") }

func (r *adaptedRequest) ContentLength() (int64, bool) {
	return int64(len(r.in.Body)), true
}

func (r *adaptedRequest) RemoteAddr() netip.AddrPort {
	return netip.AddrPortFrom(netip.IPv4Unspecified(), 0)
}

func (r *adaptedRequest) QueryString() (string, bool) {
	if !r.in.HasQuery {
		return "", false
	}

	return r.in.RawQuery, true
}

func (r *adaptedRequest) Body() io.Reader {
	_, _ = r.body.Seek(0, io.SeekStart)
	return r.body
}

var _ Request = &adaptedRequest{}

// BodyJSON queries the request body as JSON using gjson path syntax. The body is read through
// [Request.Body] so it remains readable afterwards.
func BodyJSON(r Request, path string) gjson.Result {
	b, err := io.ReadAll(r.Body())
	if err != nil {
		return gjson.Result{}
	}

	return gjson.GetBytes(b, path)
}
