// Package logging provides a middleware that tags every call with a unique
// call ID and records its outcome through a zap logger.
package logging

import (
	"context"
	"time"

	"github.com/achilleasa/dispatch/server"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey struct{}

// WithCallID returns a copy of ctx carrying id as the call ID. Transports
// that receive a call ID from their peer use this to propagate it.
func WithCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// CallID returns the call ID associated with ctx or an empty string.
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// New returns a middleware factory that logs each call to logger.
//
// Calls without a call ID are assigned a random UUID. Successful calls are
// logged at debug level and failed calls at warn level.
func New(logger *zap.Logger) server.MiddlewareFactory {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next server.Dispatcher) server.Dispatcher {
		return server.DispatcherFunc(func(ctx context.Context, payload []byte) ([]byte, error) {
			id := CallID(ctx)
			if id == "" {
				id = uuid.NewString()
				ctx = WithCallID(ctx, id)
			}

			start := time.Now()
			res, err := next.OnMessage(ctx, payload)

			fields := []zap.Field{
				zap.String("method", server.MethodName(ctx)),
				zap.String("callId", id),
				zap.Duration("duration", time.Since(start)),
				zap.Int("requestBytes", len(payload)),
			}
			if err != nil {
				logger.Warn("call failed", append(fields, zap.Error(err))...)
				return nil, err
			}

			logger.Debug("call completed", append(fields, zap.Int("responseBytes", len(res)))...)
			return res, nil
		})
	}
}
