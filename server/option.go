package server

import (
	"errors"

	"go.uber.org/zap"
)

var errEmptyDefaultRouteName = errors.New("default route name cannot be empty")

// Option applies a configuration option to a service definition.
type Option func(d *ServiceDefinition) error

// WithoutDefaultRoute prevents the service definition from registering the
// built-in echo method under DefaultRouteName.
func WithoutDefaultRoute() Option {
	return func(d *ServiceDefinition) error {
		d.defaultRoute = false
		return nil
	}
}

// WithDefaultRoute registers the built-in echo method under name instead of
// DefaultRouteName.
func WithDefaultRoute(name string) Option {
	return func(d *ServiceDefinition) error {
		if name == "" {
			return errEmptyDefaultRouteName
		}
		d.defaultRoute = true
		d.defaultRouteName = name
		return nil
	}
}

// WithUniqueNames configures the service definition to reject methods that
// share a name with a previously registered method. Without this option the
// first method registered under a name shadows any later ones.
func WithUniqueNames() Option {
	return func(d *ServiceDefinition) error {
		d.uniqueNames = true
		return nil
	}
}

// WithMiddleware appends one or more middleware factories that wrap every
// method of the service definition. Definition middleware runs before any
// middleware attached to the method itself.
func WithMiddleware(factories ...MiddlewareFactory) Option {
	return func(d *ServiceDefinition) error {
		d.middleware = append(d.middleware, factories...)
		return nil
	}
}

// WithLogger configures the logger used by the service definition.
func WithLogger(logger *zap.Logger) Option {
	return func(d *ServiceDefinition) error {
		d.logger = logger
		return nil
	}
}

// WithPanicHandler configures the service definition to use a user-defined
// panic handler.
func WithPanicHandler(handler PanicHandler) Option {
	return func(d *ServiceDefinition) error {
		d.panicHandler = handler
		return nil
	}
}
