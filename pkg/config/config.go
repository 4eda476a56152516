// Package config loads skillxfer settings from viper: flags, SKILLXFER_*
// environment variables and an optional config.yaml.
package config

import (
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SKILLXFER"

const (
	DefaultLogLevel      = "warn"
	DefaultLogFormat     = "fmt"
	DefaultCloneTimeout  = 60 * time.Second
	DefaultCloneAttempts = 3
	DefaultCloneDepth    = 1
)

// Config is the resolved configuration for a run.
type Config struct {
	LogLevel  string      `mapstructure:"log_level"`
	LogFormat string      `mapstructure:"log_format"`
	Target    string      `mapstructure:"target"`
	KeepClone bool        `mapstructure:"keep_clone"`
	Clone     CloneConfig `mapstructure:"clone"`
	Ignore    []string    `mapstructure:"ignore"`

	// Adapters is decoded separately since its keys are adapter names.
	Adapters map[string]AdapterConfig `mapstructure:"-"`
}

// CloneConfig controls how remote repositories are fetched.
type CloneConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	Attempts uint          `mapstructure:"attempts"`
	// Depth is nil when unset; zero clones the full history.
	Depth    *int          `mapstructure:"depth"`
}

// AdapterConfig holds per-adapter overrides.
type AdapterConfig struct {
	InstallPath string `mapstructure:"install_path"`
}

// Init wires the global viper instance the way every skillxfer command
// expects: env prefix, automatic env and the config file search path.
// A missing config file is not an error.
func Init(configFile string) error {
	return Setup(viper.GetViper(), configFile)
}

// Setup configures v for skillxfer and reads the config file if present.
func Setup(v *viper.Viper, configFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("clone.timeout", DefaultCloneTimeout)
	v.SetDefault("clone.attempts", DefaultCloneAttempts)
	v.SetDefault("clone.depth", DefaultCloneDepth)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.skillxfer")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

// Load resolves the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom resolves the configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	adapters, err := decodeAdapters(v.GetStringMap("adapters"))
	if err != nil {
		return nil, err
	}
	cfg.Adapters = adapters

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeAdapters(raw map[string]any) (map[string]AdapterConfig, error) {
	adapters := make(map[string]AdapterConfig, len(raw))
	for name, value := range raw {
		var ac AdapterConfig
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &ac,
			WeaklyTypedInput: true,
			ZeroFields:       false,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create adapter config decoder")
		}
		if err := decoder.Decode(value); err != nil {
			return nil, errors.Wrapf(err, "invalid configuration for adapter %q", name)
		}
		adapters[strings.ToLower(name)] = ac
	}
	return adapters, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.Clone.Timeout == 0 {
		cfg.Clone.Timeout = DefaultCloneTimeout
	}
	if cfg.Clone.Attempts == 0 {
		cfg.Clone.Attempts = DefaultCloneAttempts
	}
	if cfg.Clone.Depth == nil {
		depth := DefaultCloneDepth
		cfg.Clone.Depth = &depth
	}
}

// Validate checks values that would otherwise fail late in a run.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "fmt", "text", "json":
	default:
		return errors.Errorf("invalid log_format %q (must be fmt, text or json)", c.LogFormat)
	}

	if c.Clone.Timeout < 0 {
		return errors.Errorf("invalid clone.timeout %s", c.Clone.Timeout)
	}
	if c.Clone.Depth != nil && *c.Clone.Depth < 0 {
		return errors.Errorf("invalid clone.depth %d", *c.Clone.Depth)
	}

	for _, pattern := range c.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	return nil
}

// InstallOverrides returns the configured install roots keyed by adapter
// name, skipping adapters without an override.
func (c *Config) InstallOverrides() map[string]string {
	overrides := make(map[string]string)
	for name, ac := range c.Adapters {
		if ac.InstallPath != "" {
			overrides[name] = ac.InstallPath
		}
	}
	return overrides
}
