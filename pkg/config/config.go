// Package config loads server settings for trailmap.
//
// Config file locations (priority order):
//  1. $TRAILMAP_CONFIG
//  2. ./trailmap.yaml
//  3. ~/.config/trailmap/config.yaml
//
// Environment variables TRAILMAP_ADDR, TRAILMAP_OSM, TRAILMAP_CORS_ORIGIN and
// TRAILMAP_MAX_CONCURRENT override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Import ImportConfig `yaml:"import"`
}

// ServerConfig configures the HTTP facade.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	ReadTimeout    Duration `yaml:"read_timeout"`
	WriteTimeout   Duration `yaml:"write_timeout"`
	RequestTimeout Duration `yaml:"request_timeout"` // per-request context deadline
	MaxConcurrent  int      `yaml:"max_concurrent"`
	CORSOrigin     string   `yaml:"cors_origin"`
}

// ImportConfig configures the OSM import run at startup.
type ImportConfig struct {
	OSMPath string    `yaml:"osm_path"`
	BBox    []float64 `yaml:"bbox"` // min_lat, max_lat, min_lng, max_lng
	Trim    bool      `yaml:"trim"`
}

// Duration is a time.Duration written as "5s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the value as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides apply in both cases.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// FindConfigPath returns the first existing config file, or "".
func FindConfigPath() string {
	if p := os.Getenv("TRAILMAP_CONFIG"); p != "" {
		return p
	}
	candidates := []string{"trailmap.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "trailmap", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = Duration(5 * time.Second)
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = Duration(5 * time.Second)
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = Duration(5 * time.Second)
	}
	if c.Server.MaxConcurrent <= 0 {
		c.Server.MaxConcurrent = runtime.NumCPU() * 2
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TRAILMAP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TRAILMAP_OSM"); v != "" {
		c.Import.OSMPath = v
	}
	if v := os.Getenv("TRAILMAP_CORS_ORIGIN"); v != "" {
		c.Server.CORSOrigin = v
	}
	if v := os.Getenv("TRAILMAP_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("TRAILMAP_MAX_CONCURRENT: invalid value %q", v)
		}
		c.Server.MaxConcurrent = n
	}
	return nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if n := len(c.Import.BBox); n != 0 && n != 4 {
		return fmt.Errorf("import.bbox: want 4 values, got %d", n)
	}
	if len(c.Import.BBox) == 4 {
		b := c.Import.BBox
		if b[0] > b[1] || b[2] > b[3] {
			return fmt.Errorf("import.bbox: min exceeds max in %v", b)
		}
	}
	return nil
}
