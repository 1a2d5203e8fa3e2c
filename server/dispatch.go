package server

import "context"

// typedDispatcher binds a descriptor to a handler of the same request and
// response types. Req and Resp are only visible inside OnMessage; everything
// that stores the dispatcher sees a plain Dispatcher.
type typedDispatcher[Req, Resp any] struct {
	desc    MethodDescriptor[Req, Resp]
	handler MethodHandler[Req, Resp]
}

func (d *typedDispatcher[Req, Resp]) OnMessage(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := guard(func() (Req, error) {
		return d.desc.RequestMarshaller.Unmarshal(payload)
	})
	if err != nil {
		return nil, callError(ErrDecode, d.desc.Name, err)
	}

	res, err := guard(func() (Resp, error) {
		return d.handler.Handle(ctx, req)
	})
	if err != nil {
		return nil, callError(ErrHandler, d.desc.Name, err)
	}

	out, err := guard(func() ([]byte, error) {
		return d.desc.ResponseMarshaller.Marshal(res)
	})
	if err != nil {
		return nil, callError(ErrEncode, d.desc.Name, err)
	}

	return out, nil
}

// guard invokes fn and converts a panic into a *PanicError.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, newPanicError(r)
		}
	}()

	return fn()
}
