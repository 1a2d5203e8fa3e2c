// Package json provides marshallers for encoding and decoding data using json.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/achilleasa/dispatch/encoding"
)

var errTrailingData = errors.New("json: unexpected data after top-level value")

type jsonMarshaller[T any] struct {
	strict bool
}

func (m jsonMarshaller[T]) Marshal(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return data, nil
}

func (m jsonMarshaller[T]) Unmarshal(data []byte) (T, error) {
	var v T
	if !m.strict {
		if err := json.Unmarshal(data, &v); err != nil {
			return v, fmt.Errorf("json: %w", err)
		}
		return v, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("json: %w", err)
	}

	// Anything but EOF after the first value is rejected.
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return v, errTrailingData
	}
	return v, nil
}

// Marshaller returns a marshaller that implements encoding and decoding of
// T values using json.
func Marshaller[T any]() encoding.Marshaller[T] {
	return jsonMarshaller[T]{}
}

// Strict returns a json marshaller whose Unmarshal rejects payloads that
// contain unknown object fields or any data after the top-level value.
func Strict[T any]() encoding.Marshaller[T] {
	return jsonMarshaller[T]{strict: true}
}
