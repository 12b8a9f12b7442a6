package engine

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/terncalc/pkg/display"
	"github.com/wildfunctions/terncalc/pkg/keymap"
	"github.com/wildfunctions/terncalc/pkg/logging"
)

// Config holds the settings shared by every terncalc host.
type Config struct {
	Keymap  string       `yaml:"keymap" json:"keymap"`
	Display string       `yaml:"display" json:"display"`
	Format  string       `yaml:"format" json:"format"` // "text" or "json"
	Verbose bool         `yaml:"verbose" json:"verbose"`
	Workers int          `yaml:"workers" json:"workers"`
	Log     LogConfig    `yaml:"log" json:"log"`
	Server  ServerConfig `yaml:"server" json:"server"`
}

// LogConfig selects level and encoding of host logs.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
	JSON  bool   `yaml:"json" json:"json"`
}

// ServerConfig configures the HTTP host.
type ServerConfig struct {
	Addr              string        `yaml:"addr" json:"addr"`
	MaxSessions       int           `yaml:"max_sessions" json:"max_sessions"`
	SessionTTL        time.Duration `yaml:"session_ttl" json:"session_ttl"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Keymap:  "codes",
		Display: "ternary",
		Format:  "text",
		Verbose: false,
		Workers: runtime.NumCPU(),
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:              ":8080",
			MaxSessions:       1024,
			SessionTTL:        30 * time.Minute,
			RequestsPerSecond: 100,
			Burst:             200,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	return LoadConfigOver(DefaultConfig(), path)
}

// LoadConfigOver reads a YAML file over base.
func LoadConfigOver(base Config, path string) (Config, error) {
	cfg := base
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks names against the registries and limits for sanity.
func (c Config) Validate() error {
	if _, err := keymap.Get(c.Keymap); err != nil {
		return err
	}
	if _, err := display.Get(c.Display); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown format: %s (available: text, json)", c.Format)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	s := c.Server
	if s.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive, got %d", s.MaxSessions)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive, got %s", s.SessionTTL)
	}
	if s.RequestsPerSecond <= 0 || s.Burst <= 0 {
		return fmt.Errorf("server rate limit must be positive, got %g/s burst %d", s.RequestsPerSecond, s.Burst)
	}
	return nil
}

// Logger builds the host logger described by c.Log.
func (c Config) Logger(service string) *logging.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.New(logging.Config{Level: level, JSON: c.Log.JSON, Service: service})
}
