package server

import "context"

// Dispatcher is the type-erased invocation surface of a registered method.
// OnMessage decodes payload into the method's request type, invokes its
// handler and returns the encoded response.
//
// On error, the returned payload is always nil.
type Dispatcher interface {
	OnMessage(ctx context.Context, payload []byte) ([]byte, error)
}

// The DispatcherFunc type is an adapter to allow the use of ordinary
// functions as dispatchers. If f is a function with the appropriate
// signature, DispatcherFunc(f) is a Dispatcher that calls f.
type DispatcherFunc func(ctx context.Context, payload []byte) ([]byte, error)

// OnMessage calls f(ctx, payload).
func (f DispatcherFunc) OnMessage(ctx context.Context, payload []byte) ([]byte, error) {
	return f(ctx, payload)
}

// A MiddlewareFactory generates a Dispatcher which wraps another Dispatcher
// forming a middleware chain.
//
// After applying its logic the returned dispatcher is expected to invoke
// next before returning. It may also opt to return without invoking next,
// which prevents the rest of the chain from executing.
type MiddlewareFactory func(next Dispatcher) Dispatcher

// chain wraps d with the supplied factories so that [f1, f2, f3] yields
// f1(f2(f3(d))). Nil factories are skipped.
func chain(d Dispatcher, factories []MiddlewareFactory) Dispatcher {
	for index := len(factories) - 1; index >= 0; index-- {
		if factories[index] == nil {
			continue
		}
		d = factories[index](d)
	}
	return d
}

type ctxKey int

const ctxKeyMethodName ctxKey = iota

// MethodName returns the name of the method that is processing the call
// associated with ctx. This allows middleware shared by several methods to
// discover which method they are wrapping.
func MethodName(ctx context.Context) string {
	name, _ := ctx.Value(ctxKeyMethodName).(string)
	return name
}

func withMethodName(ctx context.Context, name string) context.Context {
	if MethodName(ctx) == name {
		return ctx
	}
	return context.WithValue(ctx, ctxKeyMethodName, name)
}
