// Package metrics provides a middleware that exports call counters and
// latency histograms to prometheus.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/achilleasa/dispatch/server"
	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes used as the value of the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeDecodeError  = "decode_error"
	OutcomeHandlerError = "handler_error"
	OutcomeEncodeError  = "encode_error"
	OutcomeError        = "error"
)

// Collector holds the prometheus metrics updated by its middleware.
type Collector struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg. A nil reg
// skips registration.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dispatch",
				Name:      "calls_total",
				Help:      "Number of method calls by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "dispatch",
				Name:      "call_duration_seconds",
				Help:      "Time spent decoding, handling and encoding method calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		for _, collector := range []prometheus.Collector{c.calls, c.duration} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}

	return c, nil
}

// Middleware returns a middleware factory that records every call.
func (c *Collector) Middleware() server.MiddlewareFactory {
	return func(next server.Dispatcher) server.Dispatcher {
		return server.DispatcherFunc(func(ctx context.Context, payload []byte) ([]byte, error) {
			start := time.Now()
			res, err := next.OnMessage(ctx, payload)

			method := server.MethodName(ctx)
			c.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			c.calls.WithLabelValues(method, outcome(err)).Inc()
			return res, err
		})
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, server.ErrDecode):
		return OutcomeDecodeError
	case errors.Is(err, server.ErrHandler):
		return OutcomeHandlerError
	case errors.Is(err, server.ErrEncode):
		return OutcomeEncodeError
	}
	return OutcomeError
}
