// Package transport defines the contract between a method registry and the
// bindings that deliver calls to it.
package transport

import (
	"context"

	"github.com/achilleasa/dispatch/server"
)

var _ Invoker = (*server.ServiceDefinition)(nil)

// Invoker is implemented by objects that can dispatch a call to a named
// method. *server.ServiceDefinition is the canonical implementation.
//
// HandleMethod must return either a response payload or an error, never
// both.
type Invoker interface {
	HandleMethod(ctx context.Context, method string, payload []byte) ([]byte, error)
}

// The InvokerFunc type is an adapter to allow the use of ordinary functions
// as Invokers. If f is a function with the appropriate signature,
// InvokerFunc(f) is an Invoker that calls f.
type InvokerFunc func(ctx context.Context, method string, payload []byte) ([]byte, error)

// HandleMethod calls f(ctx, method, payload).
func (f InvokerFunc) HandleMethod(ctx context.Context, method string, payload []byte) ([]byte, error) {
	return f(ctx, method, payload)
}
