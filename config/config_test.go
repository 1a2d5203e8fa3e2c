package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, found := values[name]
		return v, found
	}
}

func TestEnvName(t *testing.T) {
	specs := map[string]string{
		"http.addr":              "DISPATCH_HTTP_ADDR",
		"log.max_size_mb":        "DISPATCH_LOG_MAX_SIZE_MB",
		"registry/default-route": "DISPATCH_REGISTRY_DEFAULT_ROUTE",
	}

	for key, exp := range specs {
		if got := EnvName(key); got != exp {
			t.Errorf("expected env name for %q to be %q; got %q", key, exp, got)
		}
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := parse(nil, env(nil))
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected default config:\n%#+v\n\ngot:\n%#+v", Default(), cfg)
	}
}

func TestParseFileAndEnv(t *testing.T) {
	data := []byte(`
[http]
addr = "127.0.0.1:9000"

[log]
level = "debug"
max_backups = 10

[registry]
default_route = false
unique_names = true
`)

	cfg, err := parse(data, env(map[string]string{
		"DISPATCH_HTTP_ADDR":          ":9443",
		"DISPATCH_LOG_MAX_SIZE_MB":    "100",
		"DISPATCH_HTTP_MAX_BODY_SIZE": "1024",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Addr != ":9443" {
		t.Errorf("expected envvar to override http.addr; got %q", cfg.HTTP.Addr)
	}
	if cfg.HTTP.MaxBodySize != 1024 {
		t.Errorf("expected http.max_body_size 1024; got %d", cfg.HTTP.MaxBodySize)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 10 || cfg.Log.MaxSizeMB != 100 {
		t.Errorf("unexpected log config %+v", cfg.Log)
	}
	if cfg.Log.MaxAgeDays != 7 {
		t.Errorf("expected unset values to keep their defaults; got max_age_days %d", cfg.Log.MaxAgeDays)
	}
	if cfg.Registry.DefaultRoute || !cfg.Registry.UniqueNames {
		t.Errorf("unexpected registry config %+v", cfg.Registry)
	}

	if got := len(cfg.RegistryOptions()); got != 2 {
		t.Errorf("expected 2 registry options; got %d", got)
	}
}

func TestParseErrors(t *testing.T) {
	specs := []struct {
		data   string
		env    map[string]string
		expErr string
	}{
		{data: `[http`, expErr: "config:"},
		{env: map[string]string{"DISPATCH_HTTP_ADDR": ""}, expErr: errMissingAddr.Error()},
		{env: map[string]string{"DISPATCH_LOG_LEVEL": "chatty"}, expErr: "log.level"},
		{env: map[string]string{"DISPATCH_LOG_MAX_BACKUPS": "many"}, expErr: "DISPATCH_LOG_MAX_BACKUPS"},
		{env: map[string]string{"DISPATCH_REGISTRY_UNIQUE_NAMES": "perhaps"}, expErr: "DISPATCH_REGISTRY_UNIQUE_NAMES"},
		{data: "[registry]\ndefault_route_name = \"\"", expErr: errMissingDefaultRouteName.Error()},
	}

	for specIndex, spec := range specs {
		_, err := parse([]byte(spec.data), env(spec.env))
		if err == nil || !strings.Contains(err.Error(), spec.expErr) {
			t.Errorf("[spec %d] expected error containing %q; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.toml")
	if err := os.WriteFile(path, []byte("[http]\nmetrics_path = \"/stats\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTP.MetricsPath != "/stats" {
		t.Fatalf("expected metrics path %q; got %q", "/stats", cfg.HTTP.MetricsPath)
	}

	if _, err = Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected loading a missing file to fail")
	}
}
