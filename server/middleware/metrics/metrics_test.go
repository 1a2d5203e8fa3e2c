package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/achilleasa/dispatch/encoding/json"
	"github.com/achilleasa/dispatch/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	if err != nil {
		t.Fatal(err)
	}

	double := server.MustMethod(
		server.MethodDescriptor[int, int]{
			Name:               "/test/Double",
			RequestMarshaller:  json.Marshaller[int](),
			ResponseMarshaller: json.Marshaller[int](),
		},
		server.HandlerFunc[int, int](func(_ context.Context, v int) (int, error) {
			if v < 0 {
				return 0, errors.New("negative input")
			}
			return v * 2, nil
		}),
	)

	def, err := server.NewServiceDefinition([]*server.Method{double}, server.WithMiddleware(c.Middleware()))
	if err != nil {
		t.Fatal(err)
	}

	for _, payload := range []string{"1", "2", "-1", "not-a-number"} {
		def.HandleMethod(context.Background(), "/test/Double", []byte(payload))
	}

	specs := []struct {
		outcome string
		exp     float64
	}{
		{OutcomeOK, 2},
		{OutcomeHandlerError, 1},
		{OutcomeDecodeError, 1},
		{OutcomeEncodeError, 0},
	}
	for _, spec := range specs {
		if got := testutil.ToFloat64(c.calls.WithLabelValues("/test/Double", spec.outcome)); got != spec.exp {
			t.Errorf("expected %v calls with outcome %q; got %v", spec.exp, spec.outcome, got)
		}
	}

	if got := testutil.CollectAndCount(c.duration); got != 1 {
		t.Fatalf("expected one histogram series; got %d", got)
	}
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg); err != nil {
		t.Fatal(err)
	}

	var alreadyRegistered prometheus.AlreadyRegisteredError
	if _, err := New(reg); !errors.As(err, &alreadyRegistered) {
		t.Fatalf("expected an AlreadyRegisteredError; got %v", err)
	}
}

func TestOutcome(t *testing.T) {
	specs := []struct {
		err error
		exp string
	}{
		{nil, OutcomeOK},
		{server.ErrDecode, OutcomeDecodeError},
		{server.ErrHandler, OutcomeHandlerError},
		{server.ErrEncode, OutcomeEncodeError},
		{errors.New("middleware error"), OutcomeError},
	}

	for specIndex, spec := range specs {
		if got := outcome(spec.err); got != spec.exp {
			t.Errorf("[spec %d] expected outcome %q; got %q", specIndex, spec.exp, got)
		}
	}
}
