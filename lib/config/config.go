// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/jeisc/fabric-sdk-node/lib/archive"
	"github.com/jeisc/fabric-sdk-node/lib/cryptosuite"
	"github.com/jeisc/fabric-sdk-node/lib/endpoint"
	"github.com/jeisc/fabric-sdk-node/lib/fingerprint"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "CCPACK_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local packaging on developer machines.
	Development Environment = "development"
	// Production is for CI and release packaging.
	Production Environment = "production"
)

// Config is the master configuration for the packager.
type Config struct {
	// Environment selects which override section applies.
	Environment Environment `yaml:"environment" json:"environment"`

	// Crypto selects the hash provider.
	Crypto CryptoConfig `yaml:"crypto" json:"crypto"`

	// Archive configures the archive pipeline.
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Traversal configures directory fingerprinting.
	Traversal TraversalConfig `yaml:"traversal" json:"traversal"`

	// Log configures the root logger.
	Log LogConfig `yaml:"log" json:"log"`

	// Paths configures output locations.
	Paths PathsConfig `yaml:"paths" json:"paths"`

	// Peer names the endpoint packaged units are destined for.
	Peer PeerConfig `yaml:"peer" json:"peer"`

	// Per-environment overrides, applied after the base config.
	Development *ConfigOverrides `yaml:"development,omitempty" json:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty" json:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
// Empty strings and nil pointers leave the base value alone.
type ConfigOverrides struct {
	Crypto    *CryptoConfig    `yaml:"crypto,omitempty" json:"crypto,omitempty"`
	Archive   *ArchiveOverride `yaml:"archive,omitempty" json:"archive,omitempty"`
	Traversal *TraversalConfig `yaml:"traversal,omitempty" json:"traversal,omitempty"`
	Log       *LogConfig       `yaml:"log,omitempty" json:"log,omitempty"`
	Paths     *PathsConfig     `yaml:"paths,omitempty" json:"paths,omitempty"`
	Peer      *PeerConfig      `yaml:"peer,omitempty" json:"peer,omitempty"`
}

// CryptoConfig selects the hash provider.
type CryptoConfig struct {
	// Provider is a registry key (sha256, sha384, sha3-256,
	// sha3-384, blake3). Default: sha256
	Provider string `yaml:"provider" json:"provider"`
}

// ArchiveConfig configures the archive pipeline.
type ArchiveConfig struct {
	// Codec is gzip, zstd, or lz4. Default: gzip
	Codec string `yaml:"codec" json:"codec"`

	// Prefix is prepended to every archive entry name.
	Prefix string `yaml:"prefix" json:"prefix"`

	// Normalize zeroes tar header timestamps and ownership.
	// Default: false (development), true (production)
	Normalize bool `yaml:"normalize" json:"normalize"`

	// Recipients are age public keys. When set, archives are
	// encrypted to all of them.
	Recipients []string `yaml:"recipients" json:"recipients"`
}

// ArchiveOverride is the per-environment form of [ArchiveConfig].
type ArchiveOverride struct {
	Codec      string   `yaml:"codec,omitempty" json:"codec,omitempty"`
	Prefix     string   `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	Normalize  *bool    `yaml:"normalize,omitempty" json:"normalize,omitempty"`
	Recipients []string `yaml:"recipients,omitempty" json:"recipients,omitempty"`
}

// TraversalConfig configures directory fingerprinting.
type TraversalConfig struct {
	// Order is sorted or listing. Default: sorted
	Order string `yaml:"order" json:"order"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level" json:"level"`
}

// PathsConfig configures output locations.
type PathsConfig struct {
	// Output is where archives and manifests are written when no
	// explicit destination is given.
	Output string `yaml:"output" json:"output"`
}

// PeerConfig names the remote the unit is packaged for.
type PeerConfig struct {
	// Endpoint is a grpc:// or grpcs:// URL. Optional.
	Endpoint string `yaml:"endpoint" json:"endpoint"`
}

// Default returns the default configuration. Loading a file starts
// from these values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Environment: Development,
		Crypto: CryptoConfig{
			Provider: cryptosuite.DefaultProvider,
		},
		Archive: ArchiveConfig{
			Codec: archive.CodecGzip.String(),
		},
		Traversal: TraversalConfig{
			Order: fingerprint.OrderSorted.String(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Paths: PathsConfig{
			Output: filepath.Join(homeDir, ".cache", "ccpack"),
		},
	}
}

// Load loads configuration from the file named by CCPACK_CONFIG.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your ccpack.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. Files ending
// in .json or .jsonc are parsed as JSON with comments; anything else
// is parsed as YAML.
//
// Environment variables do not override config values. The only
// expansion performed is ${VAR} and ${VAR:-default} in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
		// Production defaults: release packages must be reproducible.
		if overrides == nil {
			normalize := true
			overrides = &ConfigOverrides{
				Archive: &ArchiveOverride{Normalize: &normalize},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Crypto != nil && overrides.Crypto.Provider != "" {
		c.Crypto.Provider = overrides.Crypto.Provider
	}

	if overrides.Archive != nil {
		if overrides.Archive.Codec != "" {
			c.Archive.Codec = overrides.Archive.Codec
		}
		if overrides.Archive.Prefix != "" {
			c.Archive.Prefix = overrides.Archive.Prefix
		}
		if overrides.Archive.Normalize != nil {
			c.Archive.Normalize = *overrides.Archive.Normalize
		}
		if len(overrides.Archive.Recipients) > 0 {
			c.Archive.Recipients = overrides.Archive.Recipients
		}
	}

	if overrides.Traversal != nil && overrides.Traversal.Order != "" {
		c.Traversal.Order = overrides.Traversal.Order
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}

	if overrides.Paths != nil && overrides.Paths.Output != "" {
		c.Paths.Output = overrides.Paths.Output
	}

	if overrides.Peer != nil && overrides.Peer.Endpoint != "" {
		c.Peer.Endpoint = overrides.Peer.Endpoint
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Output = expandVars(c.Paths.Output, vars)
	c.Peer.Endpoint = expandVars(c.Peer.Endpoint, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors. Provider names are
// checked against the registry by the composition root, since the set
// of registered providers is not known here.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Crypto.Provider == "" {
		errs = append(errs, fmt.Errorf("crypto.provider is required"))
	}

	if _, err := archive.ParseCodec(c.Archive.Codec); err != nil {
		errs = append(errs, fmt.Errorf("archive.codec: %w", err))
	}

	if _, err := archive.ParseRecipients(c.Archive.Recipients); err != nil {
		errs = append(errs, fmt.Errorf("archive.recipients: %w", err))
	}

	if _, err := fingerprint.ParseOrder(c.Traversal.Order); err != nil {
		errs = append(errs, fmt.Errorf("traversal.order: %w", err))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.Paths.Output == "" {
		errs = append(errs, fmt.Errorf("paths.output is required"))
	}

	if c.Peer.Endpoint != "" {
		if _, err := endpoint.Parse(c.Peer.Endpoint); err != nil {
			errs = append(errs, fmt.Errorf("peer.endpoint: %w", err))
		}
	}

	return errors.Join(errs...)
}

// EnsurePaths creates the output directory if it doesn't exist.
func (c *Config) EnsurePaths() error {
	if c.Paths.Output == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.Output, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", c.Paths.Output, err)
	}
	return nil
}
