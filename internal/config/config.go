// Package config loads the voronoi configuration file.
//
// The format is chosen by extension: .toml, or .yaml/.yml. Every section is
// optional; missing values keep their Default.
//
//	[server]
//	addr = ":8080"
//	write_timeout = "1m"
//
//	[render.limits]
//	max_width = 2048
//	max_height = 2048
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	prefix = "prod:"
package config

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/voronoi/pkg/cache"
	"github.com/matzehuels/voronoi/pkg/errors"
	"github.com/matzehuels/voronoi/pkg/palette"
	"github.com/matzehuels/voronoi/pkg/pipeline"
	"github.com/matzehuels/voronoi/pkg/server"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete voronoi configuration file.
type Config struct {
	Server  server.Config `toml:"server" yaml:"server"`
	Render  RenderConfig  `toml:"render" yaml:"render"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache"`
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics"`
	Log     LogConfig     `toml:"log" yaml:"log"`

	// Warnings lists problems that did not stop loading, such as unknown keys.
	Warnings []string `toml:"-" yaml:"-"`
}

// RenderConfig bounds and styles renders.
type RenderConfig struct {
	Limits pipeline.Limits `toml:"limits" yaml:"limits"`

	// Fallback is the color of a canvas without sites.
	Fallback string `toml:"fallback" yaml:"fallback"`
}

// CacheConfig selects and addresses the render cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend" yaml:"backend"`
	Dir      string `toml:"dir" yaml:"dir"`
	RedisURL string `toml:"redis_url" yaml:"redis_url"`
	Prefix   string `toml:"prefix" yaml:"prefix"`
}

// MetricsConfig toggles the Prometheus endpoint of the server.
type MetricsConfig struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
}

// LogConfig sets the logger level (debug, info, warn, error).
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: server.DefaultConfig(),
		Render: RenderConfig{
			Limits:   pipeline.Limits{MaxWidth: 4096, MaxHeight: 4096, MaxCells: 5000},
			Fallback: "black",
		},
		Cache: CacheConfig{Backend: CacheNone},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		for _, key := range md.Undecoded() {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("unknown key %q", key.String()))
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if strictErr := dec.Decode(cfg); strictErr != nil {
			cfg = Default()
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
			cfg.Warnings = append(cfg.Warnings, strictErr.Error())
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Server.MaxFormBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_form_bytes cannot be negative")
	}
	l := c.Render.Limits
	if l.MaxWidth < 0 || l.MaxHeight < 0 || l.MaxCells < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.limits cannot be negative")
	}
	if _, err := c.Render.FallbackColor(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render.fallback")
	}

	switch c.Cache.Backend {
	case "", CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	if c.Log.Level == "" {
		return nil
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "log.level")
	}
	return nil
}

// FallbackColor resolves Fallback; empty means black.
func (r RenderConfig) FallbackColor() (color.RGBA, error) {
	if strings.TrimSpace(r.Fallback) == "" {
		return color.RGBA{A: 255}, nil
	}
	c, err := palette.Resolve(r.Fallback)
	if err != nil {
		return color.RGBA{}, err
	}
	return palette.ToRGBA(c), nil
}

// LogLevel returns the configured level, info when unset or invalid.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Open creates the configured cache backend.
func (c CacheConfig) Open() (cache.Cache, error) {
	switch c.Backend {
	case CacheFile:
		dir := c.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case CacheRedis:
		return cache.NewRedisCache(c.RedisURL)
	default:
		return cache.NewNullCache(), nil
	}
}

// Keyer returns the key scheme, prefixed when Prefix is set.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Prefix)
}
