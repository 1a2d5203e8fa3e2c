package memory

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/achilleasa/dispatch/server"
	"github.com/achilleasa/dispatch/transport"
)

func newDefinition(t *testing.T) *server.ServiceDefinition {
	t.Helper()

	def, err := server.NewServiceDefinition(nil)
	if err != nil {
		t.Fatal(err)
	}
	return def
}

func TestInMemoryBind(t *testing.T) {
	tr := New()

	err := tr.Bind("greeter", newDefinition(t))
	if err != nil {
		t.Fatal(err)
	}

	err = tr.Bind("greeter", newDefinition(t))
	expError := `binding for service "greeter" already defined`
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get error %q; got %v", expError, err)
	}

	if err = tr.Dial(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	if err = tr.Bind("other", newDefinition(t)); err != transport.ErrTransportAlreadyDialed {
		t.Fatalf("expected to get error %v; got %v", transport.ErrTransportAlreadyDialed, err)
	}
}

func TestInMemoryLifecycleErrors(t *testing.T) {
	tr := New()
	if err := tr.Bind("greeter", newDefinition(t)); err != nil {
		t.Fatal(err)
	}

	// Request on a closed transport
	res := <-tr.Request(context.Background(), "greeter", server.DefaultRouteName, nil)
	if res.Err != transport.ErrTransportClosed {
		t.Fatalf("expected err %v; got %v", transport.ErrTransportClosed, res.Err)
	}

	if err := tr.Close(); err != transport.ErrTransportClosed {
		t.Fatalf("expected err %v; got %v", transport.ErrTransportClosed, err)
	}

	if err := tr.Dial(); err != nil {
		t.Fatal(err)
	}
	if err := tr.Dial(); err != transport.ErrTransportAlreadyDialed {
		t.Fatalf("expected err %v; got %v", transport.ErrTransportAlreadyDialed, err)
	}

	// Send to unknown service
	res = <-tr.Request(context.Background(), "unknown", server.DefaultRouteName, nil)
	if res.Err != transport.ErrNotFound {
		t.Fatalf("expected err %v; got %v", transport.ErrNotFound, res.Err)
	}

	// Send to unknown method of a known service
	res = <-tr.Request(context.Background(), "greeter", "/not/registered", nil)
	if !errors.Is(res.Err, server.ErrUnknownMethod) {
		t.Fatalf("expected error to wrap ErrUnknownMethod; got %v", res.Err)
	}

	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestInMemoryRequest(t *testing.T) {
	tr := New()
	if err := tr.Bind("greeter", newDefinition(t)); err != nil {
		t.Fatal(err)
	}
	if err := tr.Dial(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			payload := []byte{byte(i), 0x01, 0x02}
			resChan := tr.Request(context.Background(), "greeter", server.DefaultRouteName, payload)

			// Overwrite the caller buffer; the transport must have copied it.
			expPayload := append([]byte(nil), payload...)
			payload[1] = 0xff

			res := <-resChan
			if res.Err != nil {
				t.Error(res.Err)
				return
			}
			if !bytes.Equal(res.Payload, expPayload) {
				t.Errorf("expected payload %v; got %v", expPayload, res.Payload)
			}
		}(i)
	}
	wg.Wait()
}

func TestInMemoryCancelledContext(t *testing.T) {
	called := false
	tr := New()
	tr.Bind("svc", transport.InvokerFunc(func(context.Context, string, []byte) ([]byte, error) {
		called = true
		return nil, nil
	}))
	if err := tr.Dial(); err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := <-tr.Request(ctx, "svc", "/any/Method", nil)
	if res.Err != context.Canceled {
		t.Fatalf("expected err %v; got %v", context.Canceled, res.Err)
	}
	if called {
		t.Fatal("expected invoker not to be called for a cancelled context")
	}
}
