package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for every setting. The tag defaults carry a "friend:" namespace
// so volumes tagged by other tooling never match by accident.
const (
	DefaultSocketPath   = "/run/snapfriend/socket"
	DefaultDefaultTag   = "friend:default"
	DefaultTagPrefix    = "friend:cache:"
	DefaultSnapshotTag  = "friend:snapshot"
	DefaultNamePrefix   = "friend-"
	DefaultTimeout      = 2500 * time.Millisecond
	DefaultMountOptions = "discard"
)

// Config is the daemon configuration, fixed at process start and read-only
// thereafter.
type Config struct {
	// SocketPath is the unix socket to listen on. The parent directory
	// must already exist; a stale socket file is removed at startup and
	// the staging directories are created alongside it.
	SocketPath string `yaml:"socket"`

	// DefaultTag selects the fallback volume to snapshot when no find
	// group matches. The tag is matched exactly, without TagPrefix.
	DefaultTag string `yaml:"default_tag"`

	// TagPrefix namespaces every tag searched or applied on behalf of
	// clients.
	TagPrefix string `yaml:"tag_prefix"`

	// SnapshotTag is the bonus tag added to every snapshot the daemon
	// creates. Empty disables it.
	SnapshotTag string `yaml:"snapshot_tag"`

	// NamePrefix is prepended to generated snapshot names.
	NamePrefix string `yaml:"name_prefix"`

	// Timeout is the per-connection idle read timeout.
	Timeout time.Duration `yaml:"timeout"`

	// MountOptions is passed to mount -o when mounting a snapshot.
	MountOptions string `yaml:"mount_options"`

	// DataDir holds the snapshot ledger database. Empty disables the
	// ledger.
	DataDir string `yaml:"data_dir"`

	// MetricsAddr exposes Prometheus metrics over HTTP when non-empty,
	// e.g. "127.0.0.1:9321".
	MetricsAddr string `yaml:"metrics_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// LogJSON switches log output from console to JSON format.
	LogJSON bool `yaml:"log_json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SocketPath:   DefaultSocketPath,
		DefaultTag:   DefaultDefaultTag,
		TagPrefix:    DefaultTagPrefix,
		SnapshotTag:  DefaultSnapshotTag,
		NamePrefix:   DefaultNamePrefix,
		Timeout:      DefaultTimeout,
		MountOptions: DefaultMountOptions,
		LogLevel:     "info",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.SocketPath == "" {
		return fmt.Errorf("socket path must not be empty")
	}
	if c.DefaultTag == "" {
		return fmt.Errorf("default tag must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
