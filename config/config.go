// Package config loads optional YAML settings for the wordvec command.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Decode    DecodeConfig    `yaml:"decode"`
	Index     IndexConfig     `yaml:"index"`
	Neighbors NeighborsConfig `yaml:"neighbors"`
	Store     StoreConfig     `yaml:"store"`
}

// DecodeConfig controls table decoding.
type DecodeConfig struct {
	// StrictNames rejects files that repeat a token name.
	StrictNames bool `yaml:"strict_names"`
}

// IndexConfig selects the nearest-neighbour index.
type IndexConfig struct {
	Kind string `yaml:"kind"`
}

// NeighborsConfig holds defaults for neighbour queries.
type NeighborsConfig struct {
	K int `yaml:"k"`
}

// StoreConfig holds SQLite settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Default values applied to unset fields.
const (
	DefaultIndexKind = "auto"
	DefaultK         = 10
)

var validKinds = map[string]bool{"auto": true, "brute": true, "vptree": true}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Index.Kind == "" {
		c.Index.Kind = DefaultIndexKind
	}
	if c.Neighbors.K == 0 {
		c.Neighbors.K = DefaultK
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	if !validKinds[c.Index.Kind] {
		return fmt.Errorf("index.kind must be one of auto, brute, vptree; got %q", c.Index.Kind)
	}
	if c.Neighbors.K < 0 {
		return fmt.Errorf("neighbors.k must be >= 0, got %d", c.Neighbors.K)
	}
	return nil
}

// envVarPattern matches ${VAR} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} placeholders with environment variable values.
func expandEnvVars(data []byte) ([]byte, error) {
	var missing []string
	result := envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		val, ok := os.LookupEnv(string(name))
		if !ok {
			missing = append(missing, string(name))
			return match
		}
		return []byte(val)
	})
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

// Load reads and parses a config file from the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse parses config from raw YAML bytes, expanding env vars, applying
// defaults and validating.
func Parse(data []byte) (*Config, error) {
	expanded, err := expandEnvVars(data)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
