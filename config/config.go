// Package config loads mapping conventions and logging settings from YAML, JSON
// or the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shrek82/tablemap/logger"
	"github.com/shrek82/tablemap/model"
)

// Config holds the settings used to build a registry.
type Config struct {
	// Flags lists the enabled conventions: implicit_pk, auto_inc_pk, implicit_index, or all
	Flags []string `json:"flags" yaml:"flags"`

	// Conventions configures the names the implicit flags match
	Conventions ConventionsConfig `json:"conventions" yaml:"conventions"`

	// Log configures the registry logger
	Log LogConfig `json:"log" yaml:"log"`
}

// ConventionsConfig mirrors model.Conventions.
type ConventionsConfig struct {
	ImplicitPKName string `json:"implicit_pk_name" yaml:"implicit_pk_name"`
	IndexSuffix    string `json:"index_suffix" yaml:"index_suffix"`
	TagKey         string `json:"tag_key" yaml:"tag_key"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of silent, error, warn, info, debug
	Level string `json:"level" yaml:"level"`

	// Format is text or json
	Format string `json:"format" yaml:"format"`
}

// DefaultConfig returns the stock configuration: no implicit conventions, "Id"
// names, the "jorm" tag key, warnings in text form.
func DefaultConfig() *Config {
	conv := model.DefaultConventions()
	return &Config{
		Flags: nil,
		Conventions: ConventionsConfig{
			ImplicitPKName: conv.ImplicitPKName,
			IndexSuffix:    conv.IndexSuffix,
			TagKey:         conv.TagKey,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: string(logger.LogFormatText),
		},
	}
}

var flagNames = map[string]model.CreateFlags{
	"none":           model.CreateNone,
	"implicit_pk":    model.ImplicitPK,
	"implicit_index": model.ImplicitIndex,
	"auto_inc_pk":    model.AutoIncPK,
	"all":            model.AllImplicit,
}

// CreateFlags combines the configured flag names.
func (c *Config) CreateFlags() (model.CreateFlags, error) {
	flags := model.CreateNone
	for _, name := range c.Flags {
		f, ok := flagNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return model.CreateNone, fmt.Errorf("unknown flag: %s (must be implicit_pk, auto_inc_pk, implicit_index, all or none)", name)
		}
		flags |= f
	}
	return flags, nil
}

// ModelConventions converts the conventions section.
func (c *Config) ModelConventions() model.Conventions {
	return model.Conventions{
		ImplicitPKName: c.Conventions.ImplicitPKName,
		IndexSuffix:    c.Conventions.IndexSuffix,
		TagKey:         c.Conventions.TagKey,
	}
}

// NewLogger builds the logger described by the log section.
func (c *Config) NewLogger() (logger.Logger, error) {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	l := logger.NewStdLogger()
	l.SetLevel(level)
	l.SetFormat(logger.LogFormat(strings.ToLower(c.Log.Format)))
	l.SetOutput(os.Stderr)
	return l, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.CreateFlags(); err != nil {
		return err
	}
	if c.Conventions.TagKey == "" {
		return fmt.Errorf("conventions.tag_key is required")
	}
	if strings.ContainsAny(c.Conventions.TagKey, " \t:\"`") {
		return fmt.Errorf("invalid conventions.tag_key: %q", c.Conventions.TagKey)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	switch logger.LogFormat(strings.ToLower(c.Log.Format)) {
	case logger.LogFormatText, logger.LogFormatJSON:
	default:
		return fmt.Errorf("invalid log.format: %s (must be text or json)", c.Log.Format)
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv overrides cfg from environment variables with the TABLEMAP_ prefix.
// TABLEMAP_FLAGS is a comma separated list.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("TABLEMAP_FLAGS"); v != "" {
		cfg.Flags = strings.Split(v, ",")
	}
	if v := os.Getenv("TABLEMAP_IMPLICIT_PK_NAME"); v != "" {
		cfg.Conventions.ImplicitPKName = v
	}
	if v := os.Getenv("TABLEMAP_INDEX_SUFFIX"); v != "" {
		cfg.Conventions.IndexSuffix = v
	}
	if v := os.Getenv("TABLEMAP_TAG_KEY"); v != "" {
		cfg.Conventions.TagKey = v
	}
	if v := os.Getenv("TABLEMAP_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TABLEMAP_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
