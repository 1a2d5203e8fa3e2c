package main

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/achilleasa/dispatch/encoding"
	"github.com/achilleasa/dispatch/encoding/cbor"
	"github.com/achilleasa/dispatch/encoding/json"
	"github.com/achilleasa/dispatch/encoding/msgpack"
	"github.com/achilleasa/dispatch/encoding/protobuf"
	"github.com/achilleasa/dispatch/server"
	"github.com/golang/protobuf/ptypes/wrappers"
)

var (
	errNoName    = errors.New("name cannot be empty")
	errNoSamples = errors.New("at least one sample is required")
	errNotUTF8   = errors.New("text: payload is not valid utf-8")
)

// GreetRequest is the request of /demo.Greeter/Greet.
type GreetRequest struct {
	Name string `json:"name"`
}

// GreetResponse is the response of /demo.Greeter/Greet.
type GreetResponse struct {
	Greeting string `json:"greeting"`
}

// SumRequest is the request of /demo.Math/Sum.
type SumRequest struct {
	Values []int64 `msgpack:"values"`
}

// SumResponse is the response of /demo.Math/Sum.
type SumResponse struct {
	Sum int64 `msgpack:"sum"`
}

// Stats is the response of /demo.Stats/Describe.
type Stats struct {
	Count int     `cbor:"count"`
	Min   float64 `cbor:"min"`
	Max   float64 `cbor:"max"`
	Mean  float64 `cbor:"mean"`
}

// text marshals strings as raw utf-8 bytes.
var text = encoding.Funcs[string]{
	MarshalFunc: func(v string) ([]byte, error) {
		return []byte(v), nil
	},
	UnmarshalFunc: func(data []byte) (string, error) {
		if !utf8.Valid(data) {
			return "", errNotUTF8
		}
		return string(data), nil
	},
}

func newStringValue() *wrappers.StringValue { return new(wrappers.StringValue) }

func demoMethods() []*server.Method {
	return []*server.Method{
		server.MustMethod(
			server.MethodDescriptor[GreetRequest, GreetResponse]{
				Name:               "/demo.Greeter/Greet",
				RequestMarshaller:  json.Strict[GreetRequest](),
				ResponseMarshaller: json.Marshaller[GreetResponse](),
			},
			server.HandlerFunc[GreetRequest, GreetResponse](greet),
		),
		server.MustMethod(
			server.MethodDescriptor[SumRequest, SumResponse]{
				Name:               "/demo.Math/Sum",
				RequestMarshaller:  msgpack.Marshaller[SumRequest](),
				ResponseMarshaller: msgpack.Marshaller[SumResponse](),
			},
			server.Func(sum),
		),
		server.MustMethod(
			server.MethodDescriptor[[]float64, Stats]{
				Name:               "/demo.Stats/Describe",
				RequestMarshaller:  cbor.Marshaller[[]float64](),
				ResponseMarshaller: cbor.Marshaller[Stats](),
			},
			server.HandlerFunc[[]float64, Stats](describe),
		),
		server.MustMethod(
			server.MethodDescriptor[*wrappers.StringValue, *wrappers.StringValue]{
				Name:               "/demo.Strings/Reverse",
				RequestMarshaller:  protobuf.Marshaller(newStringValue),
				ResponseMarshaller: protobuf.Marshaller(newStringValue),
			},
			server.Func(reverse),
		),
		server.MustMethod(
			server.MethodDescriptor[string, string]{
				Name:               "/demo.Text/Upper",
				RequestMarshaller:  text,
				ResponseMarshaller: text,
			},
			server.Func(strings.ToUpper),
		),
		server.MustMethod(
			server.MethodDescriptor[string, string]{
				Name:               "/demo.Text/Echo",
				RequestMarshaller:  text,
				ResponseMarshaller: text,
			},
			server.Echo[string]{},
		),
	}
}

func greet(_ context.Context, req GreetRequest) (GreetResponse, error) {
	if req.Name == "" {
		return GreetResponse{}, errNoName
	}
	return GreetResponse{Greeting: "Hello, " + req.Name + "!"}, nil
}

func sum(req SumRequest) SumResponse {
	var res SumResponse
	for _, v := range req.Values {
		res.Sum += v
	}
	return res
}

func describe(_ context.Context, samples []float64) (Stats, error) {
	if len(samples) == 0 {
		return Stats{}, errNoSamples
	}

	stats := Stats{
		Count: len(samples),
		Min:   math.Inf(1),
		Max:   math.Inf(-1),
	}
	var total float64
	for _, v := range samples {
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
		total += v
	}
	stats.Mean = total / float64(len(samples))
	return stats, nil
}

func reverse(in *wrappers.StringValue) *wrappers.StringValue {
	runes := []rune(in.GetValue())
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return &wrappers.StringValue{Value: string(runes)}
}
