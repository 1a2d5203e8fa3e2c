package server

import "context"

// MethodInfo describes a registered method without exposing its request and
// response types.
type MethodInfo struct {
	Name            string
	InputStreaming  bool
	OutputStreaming bool
}

// Type returns the method type implied by the streaming flags.
func (i MethodInfo) Type() MethodType {
	return methodType(i.InputStreaming, i.OutputStreaming)
}

// Method is a named, invocable registry entry. The request and response
// types of the descriptor and handler it was created from are erased at
// construction time.
//
// Methods are immutable and safe for concurrent use.
type Method struct {
	info     MethodInfo
	dispatch Dispatcher
}

// NewMethod binds desc to handler and returns the resulting Method. The
// optional middleware factories wrap the method's dispatcher; if the slice
// contains factories [f1, f2, f3] the method is invoked as
// f1( f2( f3(dispatcher) ) ).
//
// NewMethod returns an error if desc has no name, lacks a marshaller or if
// handler is nil.
func NewMethod[Req, Resp any](desc MethodDescriptor[Req, Resp], handler MethodHandler[Req, Resp], middleware ...MiddlewareFactory) (*Method, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	if fn, isFunc := handler.(HandlerFunc[Req, Resp]); isFunc && fn == nil {
		return nil, ErrNilHandler
	}

	return &Method{
		info: MethodInfo{
			Name:            desc.Name,
			InputStreaming:  desc.InputStreaming,
			OutputStreaming: desc.OutputStreaming,
		},
		dispatch: chain(&typedDispatcher[Req, Resp]{desc: desc, handler: handler}, middleware),
	}, nil
}

// MustMethod is like NewMethod but panics if the method cannot be created.
// It simplifies the construction of static method tables.
func MustMethod[Req, Resp any](desc MethodDescriptor[Req, Resp], handler MethodHandler[Req, Resp], middleware ...MiddlewareFactory) *Method {
	m, err := NewMethod(desc, handler, middleware...)
	if err != nil {
		panic("server: " + desc.Name + ": " + err.Error())
	}
	return m
}

// Name returns the method name.
func (m *Method) Name() string {
	return m.info.Name
}

// Info returns the method metadata.
func (m *Method) Info() MethodInfo {
	return m.info
}

// Invoke runs the method's dispatcher on payload.
func (m *Method) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	return m.dispatch.OnMessage(withMethodName(ctx, m.info.Name), payload)
}
