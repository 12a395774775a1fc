// Package config loads the muralis CLI configuration file.
//
// YAML is the default format; a .toml extension selects TOML. ${VAR}
// references are expanded from the environment before parsing, and
// duration strings are parsed after. Keys missing from the file keep their
// defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when --config is not given. Its absence is not an error.
const DefaultPath = "muralis.yaml"

// Adapters names the supported store adapters.
var Adapters = []string{"fs", "sqlite", "memory"}

// Config represents the complete muralis configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" toml:"store"`
	Viewport ViewportConfig `yaml:"viewport" toml:"viewport"`
	Suggest  SuggestConfig  `yaml:"suggest" toml:"suggest"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
	Share    ShareConfig    `yaml:"share" toml:"share"`
}

// StoreConfig selects where the board is persisted.
type StoreConfig struct {
	Adapter      string `yaml:"adapter" toml:"adapter"`
	Path         string `yaml:"path" toml:"path"`
	Versioned    bool   `yaml:"versioned" toml:"versioned"`
	HistoryLimit int    `yaml:"history_limit" toml:"history_limit"`
}

// ViewportConfig is the visible area new notes are placed in.
type ViewportConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// SuggestConfig configures the generative text service.
type SuggestConfig struct {
	Endpoint string        `yaml:"endpoint" toml:"endpoint"`
	Model    string        `yaml:"model" toml:"model"`
	APIKey   string        `yaml:"api_key" toml:"api_key"`
	Timeout  time.Duration `yaml:"-" toml:"-"`

	// Raw string value for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ShareConfig holds the base URL share links are built on.
type ShareConfig struct {
	BaseURL string `yaml:"base_url" toml:"base_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Adapter:      "fs",
			Path:         "muralis-notes.json",
			HistoryLimit: 50,
		},
		Viewport: ViewportConfig{Width: 1280, Height: 800},
		Suggest: SuggestConfig{
			Endpoint:   "https://generativelanguage.googleapis.com/",
			Model:      "gemini-2.0-flash",
			Timeout:    30 * time.Second,
			TimeoutRaw: "30s",
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Share:   ShareConfig{BaseURL: "http://localhost:9002/"},
	}
}

// Load reads a configuration file, expanding ${VAR} references.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	expanded := expandEnvVars(string(data))

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(expanded, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but returns the defaults when path does not exist.
func LoadOptional(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cfg.finish(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

func (c *Config) finish() error {
	if err := parseDurations(c); err != nil {
		return fmt.Errorf("parsing durations: %w", err)
	}
	if c.Suggest.APIKey == "" {
		c.Suggest.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

func parseDurations(cfg *Config) error {
	if cfg.Suggest.TimeoutRaw == "" {
		cfg.Suggest.Timeout = 0
		return nil
	}
	d, err := time.ParseDuration(cfg.Suggest.TimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing suggest.timeout %q: %w", cfg.Suggest.TimeoutRaw, err)
	}
	cfg.Suggest.Timeout = d
	return nil
}

// Validate checks that the configuration is usable.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	switch c.Store.Adapter {
	case "fs", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s adapter", c.Store.Adapter)
		}
	case "memory":
	default:
		return fmt.Errorf("store.adapter must be one of %s, got %q", strings.Join(Adapters, ", "), c.Store.Adapter)
	}
	if c.Store.Versioned && c.Store.Adapter != "fs" {
		return fmt.Errorf("store.versioned is only supported by the fs adapter")
	}

	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return fmt.Errorf("viewport dimensions must not be negative")
	}

	if c.Suggest.Timeout < 0 {
		return fmt.Errorf("suggest.timeout must not be negative")
	}
	if c.Suggest.Endpoint != "" {
		if err := checkHTTPURL(c.Suggest.Endpoint); err != nil {
			return fmt.Errorf("suggest.endpoint %w", err)
		}
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json", "color":
	default:
		return fmt.Errorf("logging.format must be text, json or color, got %q", c.Logging.Format)
	}

	if c.Share.BaseURL != "" {
		if err := checkHTTPURL(c.Share.BaseURL); err != nil {
			return fmt.Errorf("share.base_url %w", err)
		}
	}
	return nil
}

func checkHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme")
	}
	return nil
}

// ParseLevel maps a logging.level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", s)
	}
}
