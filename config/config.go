// Package config loads the configuration of the dispatch daemon.
//
// Values are read from an optional TOML file and can be overridden with
// environment variables. The variable name for a key is built by upper-casing
// the key, replacing separators with underscores and prefixing the result
// with "DISPATCH_"; for example "log.max_size_mb" becomes
// DISPATCH_LOG_MAX_SIZE_MB.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/achilleasa/dispatch/server"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is prepended to the names of all configuration envvars.
const EnvPrefix = "DISPATCH_"

var (
	invalidCharRegex = regexp.MustCompile(`[\s.\-/]`)

	errMissingAddr             = errors.New("config: http.addr cannot be empty")
	errMissingDefaultRouteName = errors.New("config: registry.default_route_name cannot be empty when the default route is enabled")
)

// HTTP configures the HTTP binding.
type HTTP struct {
	Addr        string `toml:"addr"`
	MaxBodySize int64  `toml:"max_body_size"`
	MetricsPath string `toml:"metrics_path"`
}

// Log configures the daemon logger. When File is set, logs are also written
// to a size-rotated file.
type Log struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Registry configures the service definition.
type Registry struct {
	DefaultRoute     bool   `toml:"default_route"`
	DefaultRouteName string `toml:"default_route_name"`
	UniqueNames      bool   `toml:"unique_names"`
}

// Config is the top-level daemon configuration.
type Config struct {
	HTTP     HTTP     `toml:"http"`
	Log      Log      `toml:"log"`
	Registry Registry `toml:"registry"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HTTP: HTTP{
			Addr:        ":8080",
			MaxBodySize: 4 << 20,
			MetricsPath: "/metrics",
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Registry: Registry{
			DefaultRoute:     true,
			DefaultRouteName: server.DefaultRouteName,
		},
	}
}

// Load reads the configuration file at path on top of the defaults, applies
// any envvar overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	return parse(data, os.LookupEnv)
}

func parse(data []byte, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if len(data) != 0 {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return errMissingAddr
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	if c.Registry.DefaultRoute && c.Registry.DefaultRouteName == "" {
		return errMissingDefaultRouteName
	}
	return nil
}

// RegistryOptions maps the registry section to service definition options.
func (c *Config) RegistryOptions() []server.Option {
	var opts []server.Option
	if c.Registry.DefaultRoute {
		opts = append(opts, server.WithDefaultRoute(c.Registry.DefaultRouteName))
	} else {
		opts = append(opts, server.WithoutDefaultRoute())
	}
	if c.Registry.UniqueNames {
		opts = append(opts, server.WithUniqueNames())
	}
	return opts
}

// EnvName returns the name of the envvar that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.Trim(strings.ToUpper(invalidCharRegex.ReplaceAllString(key, "_")), "_")
}

type binding struct {
	key string
	set func(string) error
}

func (c *Config) bindings() []binding {
	return []binding{
		{"http.addr", stringVar(&c.HTTP.Addr)},
		{"http.max_body_size", int64Var(&c.HTTP.MaxBodySize)},
		{"http.metrics_path", stringVar(&c.HTTP.MetricsPath)},
		{"log.level", stringVar(&c.Log.Level)},
		{"log.file", stringVar(&c.Log.File)},
		{"log.max_size_mb", intVar(&c.Log.MaxSizeMB)},
		{"log.max_backups", intVar(&c.Log.MaxBackups)},
		{"log.max_age_days", intVar(&c.Log.MaxAgeDays)},
		{"registry.default_route", boolVar(&c.Registry.DefaultRoute)},
		{"registry.default_route_name", stringVar(&c.Registry.DefaultRouteName)},
		{"registry.unique_names", boolVar(&c.Registry.UniqueNames)},
	}
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	for _, b := range c.bindings() {
		name := EnvName(b.key)
		value, found := lookupEnv(name)
		if !found {
			continue
		}
		if err := b.set(value); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}

func stringVar(p *string) func(string) error {
	return func(v string) error {
		*p = v
		return nil
	}
}

func intVar(p *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*p = n
		return nil
	}
}

func int64Var(p *int64) func(string) error {
	return func(v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		*p = n
		return nil
	}
}

func boolVar(p *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*p = b
		return nil
	}
}
