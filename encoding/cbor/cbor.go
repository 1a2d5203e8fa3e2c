// Package cbor provides marshallers for encoding and decoding data using CBOR (RFC 8949).
package cbor

import (
	"fmt"

	"github.com/achilleasa/dispatch/encoding"
	impl "github.com/fxamacker/cbor/v2"
)

type cborMarshaller[T any] struct{}

func (cborMarshaller[T]) Marshal(v T) ([]byte, error) {
	data, err := impl.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor: %w", err)
	}
	return data, nil
}

func (cborMarshaller[T]) Unmarshal(data []byte) (T, error) {
	var v T
	if err := impl.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("cbor: %w", err)
	}
	return v, nil
}

// Marshaller returns a marshaller that implements encoding and decoding of
// T values using CBOR.
func Marshaller[T any]() encoding.Marshaller[T] {
	return cborMarshaller[T]{}
}
