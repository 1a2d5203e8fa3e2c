// Package protobuf provides marshallers for encoding and decoding of data using protocol buffers.
package protobuf

import (
	"errors"
	"fmt"

	"github.com/achilleasa/dispatch/encoding"
	"github.com/golang/protobuf/proto"
)

var errNilFactory = errors.New("protobuf: message factory not defined")

type protobufMarshaller[T proto.Message] struct {
	newFn func() T
}

func (m protobufMarshaller[T]) Marshal(v T) ([]byte, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("protobuf: %w", err)
	}
	return data, nil
}

func (m protobufMarshaller[T]) Unmarshal(data []byte) (T, error) {
	if m.newFn == nil {
		var zero T
		return zero, errNilFactory
	}

	v := m.newFn()
	if err := proto.Unmarshal(data, v); err != nil {
		var zero T
		return zero, fmt.Errorf("protobuf: %w", err)
	}
	return v, nil
}

// Marshaller returns a marshaller that implements encoding and decoding of
// protocol buffer messages. The newFn factory is invoked to allocate a fresh
// message for each Unmarshal call, for example:
//
//	protobuf.Marshaller(func() *pb.HelloRequest { return new(pb.HelloRequest) })
func Marshaller[T proto.Message](newFn func() T) encoding.Marshaller[T] {
	return protobufMarshaller[T]{newFn: newFn}
}
