// Package http provides a transport binding that serves method calls over HTTP.
package http

import (
	"errors"
	"io"
	nethttp "net/http"

	"github.com/achilleasa/dispatch/server"
	"github.com/achilleasa/dispatch/server/middleware/logging"
	"github.com/achilleasa/dispatch/transport"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// ErrorHeader carries the error message of a failed call.
	ErrorHeader = "Dispatch-Error"

	// CallIDHeader optionally carries a caller supplied call ID. It is
	// propagated to the call context and echoed back in the response.
	CallIDHeader = "Dispatch-Call-Id"

	// DefaultMaxBodySize is the default limit for request payloads.
	DefaultMaxBodySize int64 = 4 << 20
)

// Option applies a configuration option to a Handler.
type Option func(h *Handler)

// WithMaxBodySize limits the size of accepted request payloads.
func WithMaxBodySize(size int64) Option {
	return func(h *Handler) {
		h.maxBodySize = size
	}
}

// WithLogger configures the logger used by the handler.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// Handler exposes an Invoker over HTTP.
//
// Every POST request is dispatched to the method whose name equals the
// request path, e.g. "POST /helloworld.Greeter/SayHello". The request body is
// used as the call payload and the response body carries the response
// payload.
//
// Call errors are mapped to HTTP status codes using the following rules:
//   - 404 = unknown method or non-POST request
//   - 400 = request payload could not be decoded
//   - 413 = request payload exceeds the configured limit
//   - 500 = any other error; the error message is encoded in the Dispatch-Error header
type Handler struct {
	invoker     transport.Invoker
	router      chi.Router
	maxBodySize int64
	logger      *zap.Logger
}

// NewHandler creates a Handler that dispatches calls to invoker.
func NewHandler(invoker transport.Invoker, options ...Option) *Handler {
	h := &Handler{
		invoker:     invoker,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range options {
		opt(h)
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}

	notFound := func(rw nethttp.ResponseWriter, _ *nethttp.Request) {
		rw.WriteHeader(nethttp.StatusNotFound)
	}

	r := chi.NewRouter()
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
	r.Post("/*", h.serve)
	h.router = r

	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(rw nethttp.ResponseWriter, req *nethttp.Request) {
	h.router.ServeHTTP(rw, req)
}

func (h *Handler) serve(rw nethttp.ResponseWriter, req *nethttp.Request) {
	defer req.Body.Close()

	method := "/" + chi.URLParam(req, "*")

	payload, err := io.ReadAll(nethttp.MaxBytesReader(rw, req.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *nethttp.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			rw.WriteHeader(nethttp.StatusRequestEntityTooLarge)
			return
		}
		rw.Header().Set(ErrorHeader, err.Error())
		rw.WriteHeader(nethttp.StatusBadRequest)
		return
	}

	ctx := req.Context()
	callID := req.Header.Get(CallIDHeader)
	if callID != "" {
		ctx = logging.WithCallID(ctx, callID)
		rw.Header().Set(CallIDHeader, callID)
	}

	res, err := h.invoker.HandleMethod(ctx, method, payload)
	if err != nil {
		status := statusCode(err)
		if status == nethttp.StatusInternalServerError {
			h.logger.Warn("call failed", zap.String("method", method), zap.Error(err))
		}
		rw.Header().Set(ErrorHeader, err.Error())
		rw.WriteHeader(status)
		return
	}

	rw.Header().Set("Content-Type", "application/octet-stream")
	rw.WriteHeader(nethttp.StatusOK)
	rw.Write(res)
}

// statusCode maps a call error to an HTTP status code.
func statusCode(err error) int {
	switch {
	case errors.Is(err, server.ErrUnknownMethod):
		return nethttp.StatusNotFound
	case errors.Is(err, server.ErrDecode):
		return nethttp.StatusBadRequest
	}
	return nethttp.StatusInternalServerError
}
