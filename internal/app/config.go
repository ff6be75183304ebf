package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/tracker-backend/internal/clients/redis"
	"github.com/yungbote/tracker-backend/internal/data/db"
	"github.com/yungbote/tracker-backend/internal/platform/envutil"
)

type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
	OpenTimeout         time.Duration `yaml:"open_timeout"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

type MetricsConfig struct {
	ScrapeInterval    time.Duration `yaml:"scrape_interval"`
	RuntimeCollectors bool          `yaml:"runtime_collectors"`
}

type Config struct {
	Environment      string        `yaml:"environment"`
	Addr             string        `yaml:"addr"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	DashboardTimeout time.Duration `yaml:"dashboard_timeout"`
	CORSOrigins      []string      `yaml:"cors_origins"`

	Log     LogConfig      `yaml:"log"`
	Index   db.IndexConfig `yaml:"index"`
	Redis   redis.Config   `yaml:"redis"`
	Breaker BreakerConfig  `yaml:"breaker"`
	Otel    OtelConfig     `yaml:"otel"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		Environment:     "development",
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		Log:             LogConfig{Mode: "development", Level: "info"},
		Index:           db.IndexConfig{Driver: db.DriverSQLite, DSN: ":memory:"},
		Redis:           redis.Config{Channel: "tracker.events"},
		Breaker:         BreakerConfig{ConsecutiveFailures: 3, OpenTimeout: 5 * time.Second},
		Otel:            OtelConfig{ServiceName: "tracker-backend", SampleRatio: 1},
		Metrics:         MetricsConfig{ScrapeInterval: 10 * time.Second, RuntimeCollectors: true},
	}
}

// LoadConfig layers defaults, .env, the YAML file at path (or TRACKER_CONFIG)
// and finally environment variables, then validates the result.
func LoadConfig(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		path = envutil.String("TRACKER_CONFIG", "")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decodeYAML(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(raw []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Environment = envutil.String("ENVIRONMENT", cfg.Environment)
	cfg.Addr = envutil.String("TRACKER_ADDR", cfg.Addr)
	cfg.ShutdownTimeout = envutil.Duration("TRACKER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.DashboardTimeout = envutil.Duration("DASHBOARD_TIMEOUT", cfg.DashboardTimeout)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.Log.Mode = envutil.String("LOG_MODE", cfg.Log.Mode)
	cfg.Log.Level = envutil.String("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = envutil.String("LOG_FILE", cfg.Log.File)

	cfg.Index.Driver = envutil.String("INDEX_DRIVER", cfg.Index.Driver)
	cfg.Index.DSN = envutil.String("INDEX_DSN", cfg.Index.DSN)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel)

	cfg.Breaker.ConsecutiveFailures = uint32(envutil.Int("EVENT_BREAKER_FAILURES", int(cfg.Breaker.ConsecutiveFailures)))
	cfg.Breaker.OpenTimeout = envutil.Duration("EVENT_BREAKER_OPEN_TIMEOUT", cfg.Breaker.OpenTimeout)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_TRACES_SAMPLER_ARG", cfg.Otel.SampleRatio)

	cfg.Metrics.ScrapeInterval = envutil.Duration("METRICS_SCRAPE_INTERVAL", cfg.Metrics.ScrapeInterval)
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Index.Driver)) {
	case db.DriverSQLite:
	case db.DriverPostgres:
		if strings.TrimSpace(c.Index.DSN) == "" {
			errs = append(errs, errors.New("index.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("index.driver %q is not supported", c.Index.Driver))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout))
	}
	if c.DashboardTimeout < 0 {
		errs = append(errs, fmt.Errorf("dashboard_timeout must not be negative, got %s", c.DashboardTimeout))
	}
	if c.Breaker.OpenTimeout < 0 {
		errs = append(errs, fmt.Errorf("breaker.open_timeout must not be negative, got %s", c.Breaker.OpenTimeout))
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("otel.sample_ratio must be within [0,1], got %v", c.Otel.SampleRatio))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
