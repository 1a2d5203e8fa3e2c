// Package encoding defines the typed marshaller capability used by method
// descriptors to convert request and response values to and from the raw
// byte payloads exchanged with a transport.
//
// The sub-packages provide ready-made marshallers for common wire formats.
// Any implementation that satisfies the round-trip law
//
//	v2, _ := m.Unmarshal(must(m.Marshal(v)))   // v2 is equivalent to v
//
// can be plugged into a method descriptor.
package encoding

import "errors"

var (
	errNilMarshalFunc   = errors.New("encoding: marshal function not defined")
	errNilUnmarshalFunc = errors.New("encoding: unmarshal function not defined")
)

// Marshaller is implemented by objects that can convert values of type T
// into a byte representation and back.
//
// Unmarshal must return an error when the supplied data cannot be decoded
// into a T; it must never panic on malformed input.
type Marshaller[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}

// Funcs is an adapter to allow the use of ordinary functions as a
// Marshaller. If MarshalFunc and UnmarshalFunc have the appropriate
// signatures, Funcs[T]{enc, dec} is a Marshaller[T] that calls them.
type Funcs[T any] struct {
	MarshalFunc   func(T) ([]byte, error)
	UnmarshalFunc func([]byte) (T, error)
}

// Marshal calls f.MarshalFunc(v).
func (f Funcs[T]) Marshal(v T) ([]byte, error) {
	if f.MarshalFunc == nil {
		return nil, errNilMarshalFunc
	}
	return f.MarshalFunc(v)
}

// Unmarshal calls f.UnmarshalFunc(data).
func (f Funcs[T]) Unmarshal(data []byte) (T, error) {
	if f.UnmarshalFunc == nil {
		var zero T
		return zero, errNilUnmarshalFunc
	}
	return f.UnmarshalFunc(data)
}
