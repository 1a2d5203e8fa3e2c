// Package raw provides an identity marshaller for byte slice payloads.
package raw

import "github.com/achilleasa/dispatch/encoding"

type rawMarshaller struct{}

func (rawMarshaller) Marshal(v []byte) ([]byte, error) {
	return v, nil
}

func (rawMarshaller) Unmarshal(data []byte) ([]byte, error) {
	return data, nil
}

// Marshaller returns a marshaller that passes byte slices through
// unchanged. The returned slices alias their input.
func Marshaller() encoding.Marshaller[[]byte] {
	return rawMarshaller{}
}
