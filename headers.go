package bconduit

import (
	"net/textproto"
	"unicode/utf8"
)

// Headers provides read access to the request headers as handlers see them. Keys are matched in
// canonical MIME form so "content-type" and "Content-Type" address the same header.
type Headers interface {
	// Find returns all values of a header in the order they were received, or false if the
	// header is absent. A present header never yields an empty list.
	Find(key string) ([]string, bool)
	// Has reports whether at least one value exists for the key.
	Has(key string) bool
	// All returns every distinct key exactly once, in order of first appearance, with all of its
	// values grouped in receive order.
	All() []HeaderValues
}

// HeaderField is a single raw header line as received from the transport. The value is kept as
// bytes because transports do not guarantee valid UTF-8.
type HeaderField struct {
	Key   string
	Value []byte
}

// HeaderValues groups all values of one header key.
type HeaderValues struct {
	Key    string
	Values []string
}

type headerView struct {
	keys   []string
	values map[string][]string
}

// NewHeaders builds an immutable header view from raw header lines. Values that are not valid
// UTF-8 are replaced with the empty string.
func NewHeaders(fields []HeaderField) Headers {
	return newHeaderView(fields)
}

func newHeaderView(fields []HeaderField) *headerView {
	h := &headerView{values: make(map[string][]string, len(fields))}
	for _, f := range fields {
		key := textproto.CanonicalMIMEHeaderKey(f.Key)
		if _, seen := h.values[key]; !seen {
			h.keys = append(h.keys, key)
		}

		h.values[key] = append(h.values[key], decodeHeaderValue(f.Value))
	}

	return h
}

func (h *headerView) Find(key string) ([]string, bool) {
	vals, ok := h.values[textproto.CanonicalMIMEHeaderKey(key)]
	if !ok || len(vals) == 0 {
		return nil, false
	}

	return append([]string(nil), vals...), true
}

func (h *headerView) Has(key string) bool {
	_, ok := h.Find(key)
	return ok
}

func (h *headerView) All() []HeaderValues {
	all := make([]HeaderValues, 0, len(h.keys))
	for _, key := range h.keys {
		vals, _ := h.Find(key)
		all = append(all, HeaderValues{Key: key, Values: vals})
	}

	return all
}

// first returns the first value of key or the empty string.
func (h *headerView) first(key string) string {
	vals, ok := h.values[textproto.CanonicalMIMEHeaderKey(key)]
	if !ok || len(vals) == 0 {
		return ""
	}

	return vals[0]
}

func decodeHeaderValue(v []byte) string {
	if !utf8.Valid(v) {
		return ""
	}

	return string(v)
}
