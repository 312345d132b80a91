// Package config loads the service configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Temporal TemporalConfig `yaml:"temporal"`
	Storage  StorageConfig  `yaml:"storage"`
	Airline  AirlineConfig  `yaml:"airline"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type TemporalConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`

	// SeatHold is how long a booking workflow waits for confirmation.
	SeatHold time.Duration `yaml:"seat_hold"`
}

type StorageConfig struct {
	// Backend is one of none, file, sqlite, postgres, redis.
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	Autosave    bool   `yaml:"autosave"`
	LoadOnStart bool   `yaml:"load_on_start"`
}

type AirlineConfig struct {
	Name        string `yaml:"name"`
	SeedSamples bool   `yaml:"seed_samples"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Temporal: TemporalConfig{
			Enabled:   false,
			Host:      "localhost:7233",
			Namespace: "default",
			TaskQueue: "flight-operations-queue",
			SeatHold:  15 * time.Minute,
		},
		Storage: StorageConfig{
			Backend:     "file",
			Path:        "data/flights.json",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "fom:",
			Autosave:    true,
			LoadOnStart: true,
		},
		Airline: AirlineConfig{
			Name:        "Flight Operations",
			SeedSamples: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFile reads a YAML file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides values from the environment. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
	var errs []error
	getBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	if v, ok := get("API_PORT"); ok {
		c.Server.Port = v
	}
	if v, ok := get("TEMPORAL_HOST"); ok {
		c.Temporal.Host = v
	}
	if v, ok := get("TEMPORAL_NAMESPACE"); ok {
		c.Temporal.Namespace = v
	}
	getBool("TEMPORAL_ENABLED", &c.Temporal.Enabled)
	if v, ok := get("DATABASE_URL"); ok {
		c.Storage.DatabaseURL = v
	}

	host, hostSet := get("REDIS_HOST")
	port, portSet := get("REDIS_PORT")
	if hostSet || portSet {
		h, p := splitHostPort(c.Storage.RedisAddr)
		if hostSet {
			h = host
		}
		if portSet {
			p = port
		}
		c.Storage.RedisAddr = h + ":" + p
	}

	if v, ok := get("FOM_STORAGE_BACKEND"); ok {
		c.Storage.Backend = v
	}
	if v, ok := get("FOM_STORAGE_PATH"); ok {
		c.Storage.Path = v
	}
	getBool("FOM_AUTOSAVE", &c.Storage.Autosave)
	if v, ok := get("FOM_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("FOM_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	return errors.Join(errs...)
}

func splitHostPort(addr string) (string, string) {
	i := strings.LastIndex(addr, ":")
	if i < 0 {
		return addr, "6379"
	}
	return addr[:i], addr[i+1:]
}

// RegisterFlags binds flags to the config using the current values as
// defaults, so only flags given on the command line change anything.
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Server.Port, "port", c.Server.Port, "HTTP listen port")
	fs.BoolVar(&c.Temporal.Enabled, "temporal", c.Temporal.Enabled, "enable the temporal booking workflow")
	fs.StringVar(&c.Temporal.Host, "temporal-host", c.Temporal.Host, "temporal frontend host:port")
	fs.StringVar(&c.Temporal.Namespace, "temporal-namespace", c.Temporal.Namespace, "temporal namespace")
	fs.StringVar(&c.Temporal.TaskQueue, "task-queue", c.Temporal.TaskQueue, "temporal task queue")
	fs.DurationVar(&c.Temporal.SeatHold, "seat-hold", c.Temporal.SeatHold, "how long a booking holds its seat before confirmation")
	fs.StringVar(&c.Storage.Backend, "storage", c.Storage.Backend, "storage backend: none, file, sqlite, postgres, redis")
	fs.StringVar(&c.Storage.Path, "storage-path", c.Storage.Path, "snapshot file or sqlite database path")
	fs.StringVar(&c.Storage.DatabaseURL, "database-url", c.Storage.DatabaseURL, "PostgreSQL connection URL")
	fs.StringVar(&c.Storage.RedisAddr, "redis-addr", c.Storage.RedisAddr, "Redis host:port")
	fs.BoolVar(&c.Storage.Autosave, "autosave", c.Storage.Autosave, "save after every change")
	fs.BoolVar(&c.Airline.SeedSamples, "seed", c.Airline.SeedSamples, "create sample flights when storage is empty")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
}

// Resolve builds the configuration from args and the environment. The
// "--config" flag names an optional YAML file. pflag.ErrHelp is returned
// unchanged when help was requested.
func Resolve(name string, args []string, lookup func(string) (string, bool)) (*Config, error) {
	var path string
	pre := pflag.NewFlagSet(name, pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	pre.StringVar(&path, "config", "", "")
	pre.BoolP("help", "h", false, "")
	if err := pre.Parse(args); err != nil {
		return nil, err
	}
	if path == "" {
		if v, ok := lookup("FOM_CONFIG"); ok {
			path = v
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", path, "path to a YAML config file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	backends   = []string{"none", "file", "sqlite", "postgres", "redis"}
	logLevels  = []string{"debug", "info", "warn", "warning", "error"}
	logFormats = []string{"text", "json"}
)

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if !contains(backends, c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend must be one of: %v", backends))
	}
	switch c.Storage.Backend {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend))
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for the postgres backend"))
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for the redis backend"))
		}
	}
	if c.Temporal.Enabled {
		if c.Temporal.Host == "" || c.Temporal.TaskQueue == "" {
			errs = append(errs, errors.New("temporal.host and temporal.task_queue are required when temporal is enabled"))
		}
		if c.Temporal.SeatHold <= 0 {
			errs = append(errs, errors.New("temporal.seat_hold must be positive"))
		}
	}
	if !contains(logLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}
	if !contains(logFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("log.format must be one of: %v", logFormats))
	}

	return errors.Join(errs...)
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
