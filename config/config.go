// Package config provides configuration loading and management for termxml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete termxml configuration
type Config struct {
	Terminology TerminologyConfig `yaml:"terminology"`
	Compiler    CompilerConfig    `yaml:"compiler"`
	Log         LogConfig         `yaml:"log"`
}

// TerminologyConfig selects the terminology queries are compiled against
type TerminologyConfig struct {
	// Vocabulary is the name of a registered built-in terminology (default: mods)
	Vocabulary string `yaml:"vocabulary"`
	// File is a YAML terminology definition; it takes precedence over Vocabulary
	File string `yaml:"file,omitempty"`
	// Namespaces adds prefix → URI mappings to a file definition
	Namespaces map[string]string `yaml:"namespaces,omitempty"`
	// DefaultPrefix overrides the prefix bound to the root namespace of a file definition
	DefaultPrefix string `yaml:"default_prefix,omitempty"`
}

// CompilerConfig configures the query compiler
type CompilerConfig struct {
	// CacheSize is the number of compiled queries kept (0 disables the cache)
	CacheSize int `yaml:"cache_size"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Terminology: TerminologyConfig{
			Vocabulary: "mods",
		},
		Compiler: CompilerConfig{
			CacheSize: 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Terminology.Vocabulary == "" && c.Terminology.File == "" {
		return fmt.Errorf("terminology.vocabulary or terminology.file is required")
	}
	if c.Compiler.CacheSize < 0 {
		return fmt.Errorf("compiler.cache_size must not be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	return readFile(path, DefaultConfig())
}

// readFile decodes the file at path over config. Layers merged by the
// Loader start from an empty Config so unset keys do not reset earlier
// layers.
func readFile(path string, config *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Relative terminology files are resolved against the config file.
	if f := config.Terminology.File; f != "" && !filepath.IsAbs(f) {
		config.Terminology.File = filepath.Join(filepath.Dir(path), f)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Terminology
	if other.Terminology.File != "" {
		c.Terminology.File = other.Terminology.File
	}
	if other.Terminology.Vocabulary != "" {
		c.Terminology.Vocabulary = other.Terminology.Vocabulary
	}
	if other.Terminology.DefaultPrefix != "" {
		c.Terminology.DefaultPrefix = other.Terminology.DefaultPrefix
	}
	if len(other.Terminology.Namespaces) > 0 {
		if c.Terminology.Namespaces == nil {
			c.Terminology.Namespaces = make(map[string]string, len(other.Terminology.Namespaces))
		}
		for prefix, uri := range other.Terminology.Namespaces {
			c.Terminology.Namespaces[prefix] = uri
		}
	}

	// Compiler
	if other.Compiler.CacheSize != 0 {
		c.Compiler.CacheSize = other.Compiler.CacheSize
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
