// Package memory provides an in-process transport binding that delivers
// calls to one or more registries without any serialization of its own.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/achilleasa/dispatch/transport"
)

// Response carries the outcome of a call performed through the in-memory
// transport.
type Response struct {
	Payload []byte
	Err     error
}

// InMemory implements the in-memory transport. It uses channels and
// go-routines to deliver calls to the bound invokers, which makes it easy to
// use when writing tests or when embedding several services in one process.
//
// Bindings must be defined before a call to Dial and are frozen until the
// transport is closed again.
type InMemory struct {
	mutex  sync.Mutex
	dialed bool

	bindings map[string]transport.Invoker
}

// New creates a new in-memory transport instance.
func New() *InMemory {
	return &InMemory{
		bindings: make(map[string]transport.Invoker),
	}
}

// Bind routes calls for service to invoker.
//
// Bindings can only be established on a closed transport. Calls to Bind
// after a call to Dial will result in an error.
func (t *InMemory) Bind(service string, invoker transport.Invoker) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.dialed {
		return transport.ErrTransportAlreadyDialed
	}

	if t.bindings[service] != nil {
		return fmt.Errorf("binding for service %q already defined", service)
	}
	t.bindings[service] = invoker

	return nil
}

// Dial connects the transport and starts relaying calls.
func (t *InMemory) Dial() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.dialed {
		return transport.ErrTransportAlreadyDialed
	}

	t.dialed = true
	return nil
}

// Close shuts down the transport.
func (t *InMemory) Close() error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if !t.dialed {
		return transport.ErrTransportClosed
	}

	t.dialed = false
	return nil
}

// Request invokes method on the invoker bound to service and returns back a
// read-only channel for receiving the result. The payload is copied before
// Request returns so the caller may reuse its buffer.
func (t *InMemory) Request(ctx context.Context, service, method string, payload []byte) <-chan Response {
	resChan := make(chan Response, 1)

	t.mutex.Lock()
	dialed := t.dialed
	invoker := t.bindings[service]
	t.mutex.Unlock()

	switch {
	case !dialed:
		resChan <- Response{Err: transport.ErrTransportClosed}
		close(resChan)
		return resChan
	case invoker == nil:
		resChan <- Response{Err: transport.ErrNotFound}
		close(resChan)
		return resChan
	}

	req := append([]byte(nil), payload...)
	go func() {
		defer close(resChan)

		if err := ctx.Err(); err != nil {
			resChan <- Response{Err: err}
			return
		}

		res, err := invoker.HandleMethod(ctx, method, req)
		resChan <- Response{Payload: res, Err: err}
	}()

	return resChan
}
