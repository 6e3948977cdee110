// Package config loads bedboss settings from YAML on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/databio/bedboss-sub000/internal/compat"
	"github.com/databio/bedboss-sub000/internal/table"
)

// Config is the full configuration of the CLI and server.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Classifier     ClassifierConfig     `yaml:"classifier"`
	Compatibility  CompatibilityConfig  `yaml:"compatibility"`
	Registry       RegistryConfig       `yaml:"registry"`
	ExcludedRanges ExcludedRangesConfig `yaml:"excluded_ranges"`
	Log            LogConfig            `yaml:"log"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	// MaxBodyBytes caps request bodies accepted by the upload endpoints.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type ClassifierConfig struct {
	SampleRows    int  `yaml:"sample_rows"`
	MaxHeaderRows int  `yaml:"max_header_rows"`
	AllowPartial  bool `yaml:"allow_partial"`
}

// TableOptions converts the classifier settings to table reader options.
func (c ClassifierConfig) TableOptions() table.Options {
	return table.Options{MaxHeaderRows: c.MaxHeaderRows, SampleRows: c.SampleRows}
}

type CompatibilityConfig struct {
	// Exclude lists genome aliases never scored.
	Exclude []string `yaml:"exclude"`
	Workers int      `yaml:"workers"`
}

type RegistryConfig struct {
	// Path is the YAML genome registry.
	Path string `yaml:"path"`
	// ChromSizes is a directory of <alias>.chrom.sizes files.
	ChromSizes string `yaml:"chrom_sizes"`
}

type ExcludedRangesConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
			MaxBodyBytes: 256 << 20,
		},
		Classifier: ClassifierConfig{
			SampleRows:    table.DefaultSampleRows,
			MaxHeaderRows: table.DefaultMaxHeaderRows,
			AllowPartial:  true,
		},
		Compatibility: CompatibilityConfig{
			Workers: compat.DefaultWorkers,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path and overlays it on the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.max_body_bytes must not be negative"))
	}
	if c.Classifier.SampleRows < 1 {
		errs = append(errs, errors.New("classifier.sample_rows must be positive"))
	}
	if c.Classifier.MaxHeaderRows < 0 {
		errs = append(errs, errors.New("classifier.max_header_rows must not be negative"))
	}
	if c.Compatibility.Workers < 1 {
		errs = append(errs, errors.New("compatibility.workers must be positive"))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}
