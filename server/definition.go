// Package server implements the method registry of an RPC server.
//
// Handler authors describe each method with a MethodDescriptor that carries
// typed request and response marshallers, and implement a MethodHandler over
// the same types. NewMethod erases those types behind a Dispatcher that
// converts raw payloads on the way in and out, so that methods with
// unrelated signatures can live side by side in a ServiceDefinition.
//
// A transport only ever calls ServiceDefinition.HandleMethod with a method
// name and a request payload and receives the response payload back.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/achilleasa/dispatch/encoding/raw"
	"go.uber.org/zap"
)

// DefaultRouteName is the name of the echo method that every service
// definition registers unless the WithoutDefaultRoute option is used.
const DefaultRouteName = "/helloworld.Greeter/SayHello"

// A PanicHandler is invoked by the service definition when a panic is
// recovered while a method processes a call. The call itself still fails
// with the error that wraps p.
type PanicHandler func(method string, p *PanicError)

// entry pairs a method with its dispatcher after definition-level
// middleware has been applied.
type entry struct {
	method   *Method
	dispatch Dispatcher
}

// ServiceDefinition is an ordered, read-only collection of methods that are
// looked up by name when a call arrives.
//
// When several methods share a name, the first one registered handles all of
// its calls unless the definition was built with WithUniqueNames, in which
// case construction fails instead.
//
// A ServiceDefinition is never modified after NewServiceDefinition returns
// and is safe for concurrent use.
type ServiceDefinition struct {
	entries []entry
	index   map[string]*entry

	defaultRoute     bool
	defaultRouteName string
	uniqueNames      bool
	middleware       []MiddlewareFactory
	logger           *zap.Logger
	panicHandler     PanicHandler
}

// NewServiceDefinition creates a service definition for methods, in their
// supplied order, and applies any supplied options. The methods slice is
// copied and never modified.
//
// Unless the WithoutDefaultRoute option is given, a built-in method that
// echoes its raw payload is appended after methods under DefaultRouteName.
func NewServiceDefinition(methods []*Method, options ...Option) (*ServiceDefinition, error) {
	d := &ServiceDefinition{
		defaultRoute:     true,
		defaultRouteName: DefaultRouteName,
	}

	// Apply options
	var err error
	for _, opt := range options {
		err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	// Apply defaults
	d.setDefaults()

	all := make([]*Method, len(methods), len(methods)+1)
	copy(all, methods)
	if d.defaultRoute {
		echo, err := NewMethod(
			MethodDescriptor[[]byte, []byte]{
				Name:               d.defaultRouteName,
				RequestMarshaller:  raw.Marshaller(),
				ResponseMarshaller: raw.Marshaller(),
			},
			Echo[[]byte]{},
		)
		if err != nil {
			return nil, err
		}
		all = append(all, echo)
	}

	d.entries = make([]entry, 0, len(all))
	d.index = make(map[string]*entry, len(all))
	for _, m := range all {
		if m == nil || m.dispatch == nil {
			return nil, ErrNilMethod
		}
		d.entries = append(d.entries, entry{
			method:   m,
			dispatch: chain(m.dispatch, d.middleware),
		})
	}

	for i := range d.entries {
		name := d.entries[i].method.Name()
		if _, exists := d.index[name]; exists {
			if d.uniqueNames {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateMethod, name)
			}
			d.logger.Warn("method is shadowed by an earlier method with the same name", zap.String("method", name))
			continue
		}
		d.index[name] = &d.entries[i]
	}

	return d, nil
}

// FindMethod returns the first registered method whose name equals name. It
// returns an error wrapping ErrUnknownMethod if no such method exists.
func (d *ServiceDefinition) FindMethod(name string) (*Method, error) {
	e, err := d.lookup(name)
	if err != nil {
		return nil, err
	}
	return e.method, nil
}

// HandleMethod looks up the method registered under name and invokes it with
// payload, returning the encoded response.
//
// The returned error wraps one of ErrUnknownMethod, ErrDecode, ErrHandler or
// ErrEncode. No response payload is returned alongside an error.
func (d *ServiceDefinition) HandleMethod(ctx context.Context, name string, payload []byte) ([]byte, error) {
	e, err := d.lookup(name)
	if err != nil {
		d.logger.Debug("call to unknown method", zap.String("method", name))
		return nil, err
	}

	res, err := e.dispatch.OnMessage(withMethodName(ctx, name), payload)
	if err != nil {
		var panicErr *PanicError
		if d.panicHandler != nil && errors.As(err, &panicErr) {
			d.panicHandler(name, panicErr)
		}
		return nil, err
	}

	return res, nil
}

// Methods returns the metadata of all registered methods in registration
// order, including the default route and any shadowed methods.
func (d *ServiceDefinition) Methods() []MethodInfo {
	infos := make([]MethodInfo, len(d.entries))
	for i, e := range d.entries {
		infos[i] = e.method.Info()
	}
	return infos
}

func (d *ServiceDefinition) lookup(name string) (*entry, error) {
	e, exists := d.index[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return e, nil
}

// setDefaults applies default settings for fields not set by an option.
func (d *ServiceDefinition) setDefaults() {
	if d.logger == nil {
		d.logger = zap.NewNop()
	}

	if d.panicHandler == nil {
		d.panicHandler = d.logPanic
	}
}

// logPanic implements the default PanicHandler.
func (d *ServiceDefinition) logPanic(method string, p *PanicError) {
	d.logger.Error(
		"recovered from panic",
		zap.String("method", method),
		zap.String("panic", fmt.Sprint(p.Value)),
		zap.ByteString("stack", p.Stack),
	)
}
