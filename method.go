package bconduit

import "net/http"

// MethodKind enumerates the request methods a handler can switch on. Verbs outside the standard
// set are reported as [MethodOther].
type MethodKind int

const (
	MethodOther MethodKind = iota
	MethodGet
	MethodPost
	MethodPut
	MethodDelete
	MethodHead
	MethodOptions
	MethodPatch
	MethodTrace
	MethodConnect
)

var methodKinds = map[string]MethodKind{
	http.MethodGet:     MethodGet,
	http.MethodPost:    MethodPost,
	http.MethodPut:     MethodPut,
	http.MethodDelete:  MethodDelete,
	http.MethodHead:    MethodHead,
	http.MethodOptions: MethodOptions,
	http.MethodPatch:   MethodPatch,
	http.MethodTrace:   MethodTrace,
	http.MethodConnect: MethodConnect,
}

// Method is the request method. For [MethodOther] the raw verb is preserved unchanged.
type Method struct {
	kind MethodKind
	name string
}

// ParseMethod maps a verb to a Method. Matching is exact, "get" is not GET.
func ParseMethod(verb string) Method {
	return Method{kind: methodKinds[verb], name: verb}
}

// Kind returns the method kind.
func (m Method) Kind() MethodKind { return m.kind }

// String returns the verb as it was received.
func (m Method) String() string { return m.name }
