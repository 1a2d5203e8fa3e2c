// Package gob provides marshallers for encoding and decoding of data using the gob format.
package gob

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/achilleasa/dispatch/encoding"
)

type gobMarshaller[T any] struct{}

func (gobMarshaller[T]) Marshal(v T) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, fmt.Errorf("gob: %w", err)
	}
	return buf.Bytes(), nil
}

func (gobMarshaller[T]) Unmarshal(data []byte) (T, error) {
	var v T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return v, fmt.Errorf("gob: %w", err)
	}
	return v, nil
}

// Marshaller returns a marshaller that implements encoding and decoding of
// T values using gob. Every payload is a self-contained gob stream that
// carries its own type information.
func Marshaller[T any]() encoding.Marshaller[T] {
	return gobMarshaller[T]{}
}
