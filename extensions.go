package bconduit

import "github.com/samber/lo"

// Extensions is a per-request key/value store owned by the handler. It starts empty for every
// request and has no predefined keys. It is not safe for concurrent use; a handler that shares it
// with its own goroutines must synchronize access itself.
type Extensions struct {
	vals map[any]any
}

func newExtensions() *Extensions {
	return &Extensions{vals: map[any]any{}}
}

// Get returns the value stored under key.
func (e *Extensions) Get(key any) (any, bool) {
	v, ok := e.vals[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (e *Extensions) Set(key, val any) {
	e.vals[key] = val
}

// Delete removes key from the store.
func (e *Extensions) Delete(key any) {
	delete(e.vals, key)
}

// Len returns the number of stored values.
func (e *Extensions) Len() int { return len(e.vals) }

// Keys returns the stored keys in no particular order.
func (e *Extensions) Keys() []any { return lo.Keys(e.vals) }

// ExtensionValue returns the value under key if it exists and has type T.
func ExtensionValue[T any](e *Extensions, key any) (T, bool) {
	v, ok := e.Get(key)
	if !ok {
		var zero T
		return zero, false
	}

	t, ok := v.(T)
	return t, ok
}
