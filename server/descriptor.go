package server

import "github.com/achilleasa/dispatch/encoding"

// MethodType describes the call shape of a method as advertised by its
// streaming flags.
type MethodType string

// The supported method types.
const (
	Unary        MethodType = "Unary"
	ClientStream MethodType = "ClientStream"
	ServerStream MethodType = "ServerStream"
	BidiStream   MethodType = "BidiStream"
)

func methodType(inputStreaming, outputStreaming bool) MethodType {
	switch {
	case inputStreaming && outputStreaming:
		return BidiStream
	case inputStreaming:
		return ClientStream
	case outputStreaming:
		return ServerStream
	}
	return Unary
}

// MethodDescriptor holds the metadata for a single RPC method together with
// the marshallers for its request and response types.
//
// Name is the wire-level method identifier used for lookups, by convention
// a slash-delimited path such as "/helloworld.Greeter/SayHello".
//
// The streaming flags are informational; dispatching is always unary.
type MethodDescriptor[Req, Resp any] struct {
	Name            string
	InputStreaming  bool
	OutputStreaming bool

	RequestMarshaller  encoding.Marshaller[Req]
	ResponseMarshaller encoding.Marshaller[Resp]
}

// MethodType returns the method type implied by the descriptor's streaming flags.
func (d MethodDescriptor[Req, Resp]) MethodType() MethodType {
	return methodType(d.InputStreaming, d.OutputStreaming)
}

func (d MethodDescriptor[Req, Resp]) validate() error {
	if d.Name == "" {
		return ErrMethodHasNoName
	}
	if d.RequestMarshaller == nil || d.ResponseMarshaller == nil {
		return ErrNilMarshaller
	}
	return nil
}
