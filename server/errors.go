package server

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// Call errors. Errors returned by ServiceDefinition.HandleMethod and
// Method.Invoke wrap exactly one of these and can be classified with
// errors.Is.
var (
	ErrUnknownMethod = errors.New("unknown method")
	ErrDecode        = errors.New("request decode failed")
	ErrHandler       = errors.New("method handler failed")
	ErrEncode        = errors.New("response encode failed")
)

// Registration errors.
var (
	ErrMethodHasNoName = errors.New("method name cannot be empty")
	ErrNilMarshaller   = errors.New("method descriptor requires both a request and a response marshaller")
	ErrNilHandler      = errors.New("method handler cannot be nil")
	ErrNilMethod       = errors.New("service definition contains an uninitialized method")
	ErrDuplicateMethod = errors.New("duplicate method name")
)

// PanicError is produced when a handler or marshaller panics while
// processing a call. It is always wrapped by one of the call errors.
type PanicError struct {
	// The value passed to panic.
	Value interface{}

	// The stack of the goroutine that panicked.
	Stack []byte
}

func newPanicError(v interface{}) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("recovered from panic: %v", e.Value)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// callError wraps cause with one of the call error kinds.
func callError(kind error, method string, cause error) error {
	return fmt.Errorf("%w: method %q: %w", kind, method, cause)
}
