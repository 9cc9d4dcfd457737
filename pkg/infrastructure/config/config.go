package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// DefaultPath is the configuration file looked up when no path is given
const DefaultPath = "config.yaml"

// Config holds all configuration for the planner.
// Values come from an optional YAML file; environment variables always override them.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Planning PlanningConfig `yaml:"planning"`
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level string `yaml:"level" env:"MRP_LOG_LEVEL" env-default:"info"`
	// Format is "console" for humans or "json" for log shippers
	Format string `yaml:"format" env:"MRP_LOG_FORMAT" env-default:"console"`
}

// PlanningConfig holds engine defaults.
type PlanningConfig struct {
	// Workers bounds same-tier concurrency; 0 or 1 nets sequentially
	Workers    int    `yaml:"workers" env:"MRP_WORKERS" env-default:"4"`
	BucketUnit string `yaml:"bucket_unit" env:"MRP_BUCKET_UNIT" env-default:"week"`
	Buckets    int    `yaml:"buckets" env:"MRP_BUCKETS" env-default:"12"`
	// MaxBuckets rejects longer horizons before any netting starts
	MaxBuckets int `yaml:"max_buckets" env:"MRP_MAX_BUCKETS" env-default:"1040"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"MRP_HTTP_ADDR" env-default:"127.0.0.1:8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"MRP_HTTP_READ_TIMEOUT" env-default:"15s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"MRP_HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// MaxBodyBytes caps the size of a planning request
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MRP_HTTP_MAX_BODY_BYTES" env-default:"10485760"`
}

// StoreConfig holds run store configuration.
type StoreConfig struct {
	// Path of the SQLite database; ":memory:" keeps runs for the process lifetime only
	Path string `yaml:"path" env:"MRP_STORE_PATH" env-default:"mrp.db"`
}

// Load reads configuration from path with environment variable overrides.
// A missing file at the default path is not an error; defaults and env apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := &Config{}

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	case errors.Is(statErr, fs.ErrNotExist) && path == DefaultPath:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, statErr)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cleanenv cannot check by type alone.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.Log.Format)
	}
	if c.Planning.Workers < 0 {
		return fmt.Errorf("workers cannot be negative, got %d", c.Planning.Workers)
	}
	if c.Planning.MaxBuckets <= 0 || c.Planning.MaxBuckets > entities.MaxHorizonBuckets {
		return fmt.Errorf("max buckets must be between 1 and %d, got %d", entities.MaxHorizonBuckets, c.Planning.MaxBuckets)
	}
	if c.Planning.Buckets > c.Planning.MaxBuckets {
		return fmt.Errorf("default horizon of %d buckets exceeds max buckets %d", c.Planning.Buckets, c.Planning.MaxBuckets)
	}
	horizon := c.Horizon()
	if problems := horizon.Validate(); len(problems) > 0 {
		return fmt.Errorf("default horizon: %s", problems[0])
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// Horizon returns the default planning horizon
func (c *Config) Horizon() entities.Horizon {
	return entities.Horizon{Buckets: c.Planning.Buckets, Unit: entities.BucketUnit(c.Planning.BucketUnit)}
}
