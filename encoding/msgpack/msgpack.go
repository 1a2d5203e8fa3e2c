// Package msgpack provides marshallers for encoding and decoding data using msgpack.
package msgpack

import (
	"fmt"

	"github.com/achilleasa/dispatch/encoding"
	impl "gopkg.in/vmihailenco/msgpack.v2"
)

type msgpackMarshaller[T any] struct{}

func (msgpackMarshaller[T]) Marshal(v T) ([]byte, error) {
	data, err := impl.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("msgpack: %w", err)
	}
	return data, nil
}

func (msgpackMarshaller[T]) Unmarshal(data []byte) (T, error) {
	var v T
	if err := impl.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("msgpack: %w", err)
	}
	return v, nil
}

// Marshaller returns a marshaller that implements encoding and decoding of
// T values using msgpack.
func Marshaller[T any]() encoding.Marshaller[T] {
	return msgpackMarshaller[T]{}
}
