package server

import "context"

// MethodHandler is implemented by objects that answer the requests of a
// single method.
//
// Returning an error, or panicking, fails the active call only. The server
// recovers handler panics and reports them as ErrHandler call errors.
type MethodHandler[Req, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// The HandlerFunc type is an adapter to allow the use of ordinary functions
// as method handlers. If f is a function with the appropriate signature,
// HandlerFunc(f) is a MethodHandler that calls f.
type HandlerFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Handle calls f(ctx, req).
func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Func adapts a plain function that cannot fail into a MethodHandler.
func Func[Req, Resp any](fn func(Req) Resp) MethodHandler[Req, Resp] {
	if fn == nil {
		return nil
	}
	return HandlerFunc[Req, Resp](func(_ context.Context, req Req) (Resp, error) {
		return fn(req), nil
	})
}

// Echo is a MethodHandler that responds with its request.
type Echo[T any] struct{}

// Handle returns req.
func (Echo[T]) Handle(_ context.Context, req T) (T, error) {
	return req, nil
}
