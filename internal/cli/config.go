package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/footrule/pkg/aggregate"
	"github.com/matzehuels/footrule/pkg/errors"
	pkgio "github.com/matzehuels/footrule/pkg/io"
	"github.com/matzehuels/footrule/pkg/pipeline"
	"github.com/matzehuels/footrule/pkg/server"
)

// Backend names for the cache and history sections.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Environment variables that override the config file.
const (
	envRedisAddr = "FOOTRULE_REDIS_ADDR"
	envMongoURI  = "FOOTRULE_MONGO_URI"
)

// Config is the contents of config.toml. Flags override it.
type Config struct {
	Solver  SolverConfig  `toml:"solver"`
	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

type SolverConfig struct {
	Method   string `toml:"method"`
	MaxItems int    `toml:"max_items"`
}

type OutputConfig struct {
	Format   string `toml:"format"`
	Distance string `toml:"distance"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	TTL           duration `toml:"ttl"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
}

type HistoryConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// duration decodes TOML strings such as "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// defaultConfig mirrors the pipeline defaults.
func defaultConfig() *Config {
	return &Config{
		Solver: SolverConfig{
			Method:   string(pipeline.DefaultMethod),
			MaxItems: pipeline.DefaultMaxItems,
		},
		Output: OutputConfig{
			Format:   string(pipeline.DefaultFormat),
			Distance: string(pipeline.DefaultDistance),
		},
		Cache: CacheConfig{
			Backend:   backendFile,
			RedisAddr: "localhost:6379",
		},
		History: HistoryConfig{
			Backend:  backendFile,
			MongoURI: "mongodb://localhost:27017",
		},
		Server: ServerConfig{
			Addr: server.DefaultAddr,
		},
	}
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing default file yields the defaults; a missing
// explicit file is an error.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		path, _ = configPath()
	}

	if path != "" {
		if err := decodeConfigFile(path, explicit, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}

func decodeConfigFile(path string, explicit bool, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(envMongoURI); v != "" {
		c.History.MongoURI = v
	}
}

func (c *Config) validate() error {
	if _, err := aggregate.ParseMethod(c.Solver.Method); err != nil {
		return err
	}
	if c.Solver.MaxItems < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "solver.max_items must be positive, got %d", c.Solver.MaxItems)
	}
	if _, err := pkgio.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if _, err := pkgio.ParsePlacement(c.Output.Distance); err != nil {
		return err
	}

	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if err := errors.ValidateRedisAddr(c.Cache.RedisAddr); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}

	switch c.History.Backend {
	case backendFile, backendNone:
	case backendMongo:
		if err := errors.ValidateMongoURI(c.History.MongoURI); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "history.backend must be file, mongo or none, got %q", c.History.Backend)
	}
	return nil
}
