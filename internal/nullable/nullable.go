// Package nullable provides a JSON field that tells an omitted key apart
// from an explicit null.
//
//	type Patch struct {
//	    Author nullable.Field[string] `json:"author,omitzero"`
//	}
//
// Decoding {} leaves Author unset, {"author":null} marks it Set+Null, and
// {"author":"x"} marks it Set with Value "x".
package nullable

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state JSON value: absent, null, or a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Value returns a field holding v.
func Value[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a field that is explicitly null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// UnmarshalJSON is only called when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// IsZero lets `omitzero` drop unset fields when encoding.
func (f Field[T]) IsZero() bool {
	return !f.Set
}

// HasValue reports whether the field carries a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Ptr returns a pointer to the value, or nil when the field is null or unset.
func (f Field[T]) Ptr() *T {
	if !f.HasValue() {
		return nil
	}
	v := f.Value
	return &v
}

// Apply writes the field onto dst: unset keeps dst, null clears it, a value replaces it.
func (f Field[T]) Apply(dst **T) {
	if !f.Set {
		return
	}
	*dst = f.Ptr()
}
