// Package config loads jeomja settings from TOML or YAML files with
// JEOMJA_ environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jeomja"
	"github.com/reoring/jeomja/render"
)

// Config is the full jeomja configuration.
type Config struct {
	// Language selects the marker language ("ko" or "en").
	Language string `toml:"language" yaml:"language"`

	Server ServerConfig `toml:"server" yaml:"server"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Tables TablesConfig `toml:"tables" yaml:"tables"`
	Encode EncodeConfig `toml:"encode" yaml:"encode"`
	Render RenderConfig `toml:"render" yaml:"render"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string        `toml:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// TablesConfig points at an external table document. An empty Path uses the
// embedded tables.
type TablesConfig struct {
	Path  string `toml:"path" yaml:"path"`
	Watch bool   `toml:"watch" yaml:"watch"`
}

// EncodeConfig mirrors jeomja.EncodeOpt.
type EncodeConfig struct {
	Abbreviations bool `toml:"abbreviations" yaml:"abbreviations"`
	Normalize     bool `toml:"normalize" yaml:"normalize"`
}

// Opt converts to encoder options.
func (e EncodeConfig) Opt() jeomja.EncodeOpt {
	return jeomja.EncodeOpt{Abbreviations: e.Abbreviations, Normalize: e.Normalize}
}

// RenderConfig mirrors render.Geometry.
type RenderConfig struct {
	CellSize  int `toml:"cell_size" yaml:"cell_size"`
	DotRadius int `toml:"dot_radius" yaml:"dot_radius"`
	Margin    int `toml:"margin" yaml:"margin"`
}

// Geometry converts to a render geometry.
func (r RenderConfig) Geometry() render.Geometry {
	return render.Geometry{CellSize: r.CellSize, DotRadius: r.DotRadius, Margin: r.Margin}
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	g := render.DefaultGeometry()
	return &Config{
		Language: "ko",
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Log:    LogConfig{Level: "info", Format: "text"},
		Encode: EncodeConfig{Abbreviations: true, Normalize: true},
		Render: RenderConfig{CellSize: g.CellSize, DotRadius: g.DotRadius, Margin: g.Margin},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config: decode YAML: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("config: decode TOML: %w", err)
		}
	}
	return nil
}

// ApplyEnvOverrides applies JEOMJA_* environment variables.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("JEOMJA_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JEOMJA_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("JEOMJA_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("JEOMJA_TABLES"); v != "" {
		c.Tables.Path = v
	}
	if v := os.Getenv("JEOMJA_LANG"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("JEOMJA_ABBREVIATIONS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Encode.Abbreviations = b
		}
	}
}

// Save writes c as TOML.
func Save(c *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("config: encode TOML: %w", err)
	}
	return nil
}
