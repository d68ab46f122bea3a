// Package config loads the optional listkit.yaml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// RuntimeVersion is the version of this listkit runtime, set at build time.
var RuntimeVersion = "0.1.0"

// Config represents the optional listkit.yaml configuration.
type Config struct {
	Defaults  DefaultsConfig  `yaml:"defaults"`
	Sanitizer SanitizerConfig `yaml:"sanitizer"`
	Runtime   RuntimeConfig   `yaml:"runtime"`
}

// DefaultsConfig contains pipeline defaults applied to every controller.
type DefaultsConfig struct {
	// ExpressionPath is the default field path, overriding "items".
	ExpressionPath string `yaml:"expressionPath,omitempty"`
	// MaxItems caps rendered items; 0 means no cap.
	MaxItems int `yaml:"maxItems,omitempty"`
	// FetchTimeout bounds one fetch, e.g. "5s". Empty means no timeout.
	FetchTimeout string `yaml:"fetchTimeout,omitempty"`
}

// SanitizerConfig selects the markup sanitizer policy.
type SanitizerConfig struct {
	// Policy is "ugc" (default) or "strict".
	Policy string `yaml:"policy,omitempty"`
}

// RuntimeConfig constrains the runtime a configuration requires.
type RuntimeConfig struct {
	// Version is the minimum listkit version, e.g. "0.1.0".
	Version string `yaml:"version,omitempty"`
}

// LoadOptional reads listkit.yaml from dir if present. A missing file
// yields an empty, valid configuration.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "listkit.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read listkit.yaml: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse listkit.yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values and the runtime version constraint.
func (c *Config) Validate() error {
	switch c.Sanitizer.Policy {
	case "", "ugc", "strict":
	default:
		return fmt.Errorf("sanitizer.policy must be \"ugc\" or \"strict\", got %q", c.Sanitizer.Policy)
	}
	if c.Defaults.MaxItems < 0 {
		return fmt.Errorf("defaults.maxItems must not be negative, got %d", c.Defaults.MaxItems)
	}
	if c.Defaults.FetchTimeout != "" {
		if _, err := time.ParseDuration(c.Defaults.FetchTimeout); err != nil {
			return fmt.Errorf("defaults.fetchTimeout: %w", err)
		}
	}
	if v := c.Runtime.Version; v != "" {
		required := canonical(v)
		if !semver.IsValid(required) {
			return fmt.Errorf("runtime.version %q is not a valid semantic version", v)
		}
		if semver.Compare(canonical(RuntimeVersion), required) < 0 {
			return fmt.Errorf("runtime.version %s requires a newer listkit (running %s)", v, RuntimeVersion)
		}
	}
	return nil
}

// Timeout returns the parsed fetch timeout, or 0 when unset. Call Validate
// first; unparseable values return 0 here.
func (c *Config) Timeout() time.Duration {
	if c.Defaults.FetchTimeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Defaults.FetchTimeout)
	if err != nil {
		return 0
	}
	return d
}

// canonical normalizes a version string for the semver package, which
// expects a leading "v".
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
