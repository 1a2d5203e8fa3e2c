// Command dispatchd serves a set of demo methods over HTTP.
//
// Usage:
//
//	dispatchd [-config dispatch.toml]
//
// Every method is reachable with a POST request whose path is the method
// name, e.g.
//
//	curl -d '{"name":"gopher"}' http://localhost:8080/demo.Greeter/Greet
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	nethttp "net/http"
	"time"

	"github.com/achilleasa/dispatch/config"
	"github.com/achilleasa/dispatch/logger"
	"github.com/achilleasa/dispatch/server"
	"github.com/achilleasa/dispatch/server/middleware/logging"
	"github.com/achilleasa/dispatch/server/middleware/metrics"
	httptransport "github.com/achilleasa/dispatch/transport/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Parse()

	fx.New(options(*configPath)).Run()
}

func options(configPath string) fx.Option {
	return fx.Options(
		fx.Provide(
			func() (*config.Config, error) { return config.Load(configPath) },
			newLogger,
			newMetricsRegistry,
			newServiceDefinition,
			newHTTPServer,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(func(*nethttp.Server) {}),
	)
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// Syncing stdout fails on some platforms; there is nothing to do about it.
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

func newMetricsRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newServiceDefinition(cfg *config.Config, log *zap.Logger, reg *prometheus.Registry) (*server.ServiceDefinition, error) {
	collector, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	opts := append(
		cfg.RegistryOptions(),
		server.WithLogger(log),
		server.WithMiddleware(logging.New(log), collector.Middleware()),
	)
	return server.NewServiceDefinition(demoMethods(), opts...)
}

func newHTTPServer(lc fx.Lifecycle, cfg *config.Config, def *server.ServiceDefinition, reg *prometheus.Registry, log *zap.Logger) *nethttp.Server {
	mux := nethttp.NewServeMux()
	if cfg.HTTP.MetricsPath != "" {
		mux.Handle(cfg.HTTP.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	mux.Handle("/", httptransport.NewHandler(
		def,
		httptransport.WithMaxBodySize(cfg.HTTP.MaxBodySize),
		httptransport.WithLogger(log),
	))

	srv := &nethttp.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(def.Methods()))
			for _, info := range def.Methods() {
				names = append(names, info.Name)
			}
			log.Info("serving methods", zap.String("addr", ln.Addr().String()), zap.Strings("methods", names))

			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
					log.Error("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
