package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/footrule/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver.Method != "hungarian" || cfg.Solver.MaxItems != 1000 {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Output.Format != "text" || cfg.Output.Distance != "first" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Cache.Backend != backendFile || cfg.History.Backend != backendFile {
		t.Errorf("backends = %q, %q", cfg.Cache.Backend, cfg.History.Backend)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")

	path := writeConfig(t, `
[solver]
method = "brute"
max_items = 50

[output]
format = "json"

[cache]
backend = "none"
ttl = "2h"

[history]
backend = "none"

[server]
addr = ":9090"
request_timeout = "5s"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver.Method != "brute" || cfg.Solver.MaxItems != 50 {
		t.Errorf("solver = %+v", cfg.Solver)
	}
	if cfg.Output.Format != "json" || cfg.Output.Distance != "first" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Cache.TTL.Duration != 2*time.Hour {
		t.Errorf("cache.ttl = %v", cfg.Cache.TTL.Duration)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout.Duration != 5*time.Second {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv(envRedisAddr, "cache.internal:6380")
	t.Setenv(envMongoURI, "mongodb://db.internal:27017")

	path := writeConfig(t, `
[cache]
backend = "redis"
redis_addr = "localhost:6379"

[history]
backend = "mongo"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Cache.RedisAddr != "cache.internal:6380" {
		t.Errorf("redis_addr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.History.MongoURI != "mongodb://db.internal:27017" {
		t.Errorf("mongo_uri = %q", cfg.History.MongoURI)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "[solver\nmethod = ", errors.ErrCodeInvalidConfig},
		{"unknown key", "[solver]\ncolour = \"blue\"\n", errors.ErrCodeInvalidConfig},
		{"bad method", "[solver]\nmethod = \"greedy\"\n", errors.ErrCodeInvalidMethod},
		{"bad format", "[output]\nformat = \"pdf\"\n", errors.ErrCodeInvalidFormat},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"bad redis addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"nocolon\"\n", errors.ErrCodeInvalidConfig},
		{"bad mongo uri", "[history]\nbackend = \"mongo\"\nmongo_uri = \"http://x\"\n", errors.ErrCodeInvalidConfig},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}
