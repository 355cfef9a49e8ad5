// Package config loads CLI settings from a config file and the environment
// and builds the AWS SDK configuration from them.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by every command.
// An empty Format lets each command pick its own default.
type Config struct {
	Region      string `yaml:"region" toml:"region"`
	Profile     string `yaml:"profile" toml:"profile"`
	EndpointURL string `yaml:"endpoint_url" toml:"endpoint_url"`
	MaxAttempts int    `yaml:"max_attempts" toml:"max_attempts"`
	Format      string `yaml:"format" toml:"format"`
	LogLevel    string `yaml:"log_level" toml:"log_level"`
	LogFormat   string `yaml:"log_format" toml:"log_format"`
}

// Environment variables read by ApplyEnv.
const (
	EnvRegion      = "APIGWV2_REGION"
	EnvProfile     = "APIGWV2_PROFILE"
	EnvEndpointURL = "APIGWV2_ENDPOINT_URL"
	EnvFormat      = "APIGWV2_FORMAT"
	EnvLogLevel    = "APIGWV2_LOG_LEVEL"
	EnvMaxAttempts = "APIGWV2_MAX_ATTEMPTS"
)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/apigwv2/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "apigwv2", "config.yaml")
	}
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".config", "apigwv2", "config.yaml")
}

// Load reads the config file at path over the defaults. An empty path means
// DefaultPath, which may be absent. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q (use .yaml or .toml)", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Region, EnvRegion)
	set(&c.Profile, EnvProfile)
	set(&c.EndpointURL, EnvEndpointURL)
	set(&c.Format, EnvFormat)
	set(&c.LogLevel, EnvLogLevel)

	if v, ok := lookup(EnvMaxAttempts); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxAttempts, err)
		}
		c.MaxAttempts = n
	}
	return nil
}

// Validate checks the settings and joins every problem found.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Format) {
	case "", "json", "yaml", "text":
	default:
		errs = append(errs, fmt.Errorf("format: unknown value %q (use json, yaml or text)", c.Format))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown value %q (use text or json)", c.LogFormat))
	}
	if c.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("max_attempts: must not be negative, got %d", c.MaxAttempts))
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name onto a slog level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q", s)
	}
}

// LoadAWS resolves the AWS configuration: credentials and region from the
// SDK's default chain, overridden by the explicit settings in c.
func LoadAWS(ctx context.Context, c *Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(c.Profile))
	}
	if c.MaxAttempts > 0 {
		opts = append(opts, awsconfig.WithRetryMaxAttempts(c.MaxAttempts))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config: %w", err)
	}
	return cfg, nil
}
