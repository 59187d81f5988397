// Package config loads wordbounds CLI configuration from a YAML file and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kerem-kaynak/word-bounds/internal/logging"
	"github.com/kerem-kaynak/word-bounds/pkg/wordbounds"
)

// Config contains all wordbounds CLI settings.
type Config struct {
	// Engine names the resolution engine: "automaton", "pattern" or "split".
	Engine string `yaml:"engine"`

	// RulesFile points at a YAML rule file. Empty means the default rules.
	RulesFile string `yaml:"rules_file,omitempty"`

	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Index   IndexConfig   `yaml:"index"`
}

// CacheConfig configures the resolver's result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// LoggingConfig configures operational logging.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `yaml:"level"`
}

// IndexConfig configures index building and lookup.
type IndexConfig struct {
	// Path is the default index file for the index subcommands.
	Path string `yaml:"path,omitempty"`

	// Stem enables English stemming of indexed terms. Lookups must use the
	// same setting the index was built with.
	Stem bool `yaml:"stem"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Engine: wordbounds.Automaton.String(),
		Cache: CacheConfig{
			Enabled: true,
			Size:    wordbounds.DefaultCacheSize,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.wordbounds/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".wordbounds", "config.yaml"), nil
}

// Load loads configuration from the default location and environment variables.
// Order: defaults -> ~/.wordbounds/config.yaml -> environment variables
func Load() (*Config, error) {
	cfg := Default()

	if path, err := DefaultPath(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			fileCfg, loadErr := LoadFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			cfg = fileCfg
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file on top of the
// defaults. Environment overrides are not applied.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	cfg.RulesFile = os.ExpandEnv(cfg.RulesFile)
	cfg.Index.Path = os.ExpandEnv(cfg.Index.Path)
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := wordbounds.ParseKind(c.Engine); err != nil {
		return fmt.Errorf("invalid engine: %w", err)
	}

	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size must be non-negative, got %d", c.Cache.Size)
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// ResolverOptions turns the cache settings into resolver options.
func (c *Config) ResolverOptions() []wordbounds.Option {
	if !c.Cache.Enabled || c.Cache.Size == 0 {
		return []wordbounds.Option{wordbounds.WithoutCache()}
	}
	return []wordbounds.Option{wordbounds.WithCache(c.Cache.Size)}
}

// ApplyEnv applies WORDBOUNDS_* environment variable overrides.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("WORDBOUNDS_ENGINE"); v != "" {
		c.Engine = v
	}

	if v := os.Getenv("WORDBOUNDS_RULES"); v != "" {
		c.RulesFile = v
	}

	if v := os.Getenv("WORDBOUNDS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv("WORDBOUNDS_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("WORDBOUNDS_CACHE_SIZE: %w", err)
		}
		c.Cache.Size = n
		c.Cache.Enabled = n > 0
	}

	return nil
}
