// Package config provides configuration management for slackmoji.
// It supports a YAML configuration file, environment variables, and
// sensible defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/klauern/slackmoji/internal/slack"
	"github.com/klauern/slackmoji/internal/util"
)

// Config represents the complete slackmoji configuration.
type Config struct {
	// Slack configures the workspace connection
	Slack SlackConfig `yaml:"slack"`

	// Export configures the export flow
	Export ExportConfig `yaml:"export"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// SlackConfig holds workspace connection settings.
type SlackConfig struct {
	// Token is the API token used for every call. Usually supplied via
	// the SLACK_TOKEN environment variable rather than the file.
	Token string `yaml:"token,omitempty"`
	// Workspace is the workspace subdomain, e.g. "acme" for
	// acme.slack.com.
	Workspace string `yaml:"workspace,omitempty"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// PageSize is the number of emoji requested per listing page.
	PageSize int `yaml:"page_size"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
	// Verbose enables verbose output
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			PageSize: slack.DefaultPageSize,
		},
		Output: OutputConfig{
			Color:   "auto",
			Verbose: false,
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigDir(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	configPath := FilePath()
	// #nosec G304 - configPath is constructed from trusted config directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file, use defaults with environment overrides
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// applyEnvironment applies environment variable overrides. The Slack
// credentials use the conventional SLACK_* names; everything else
// follows SLACKMOJI_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("SLACK_TOKEN"); v != "" {
		c.Slack.Token = v
	}
	if v := os.Getenv("SLACK_WORKSPACE"); v != "" {
		c.Slack.Workspace = v
	}
	if v := os.Getenv("SLACKMOJI_EXPORT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Export.PageSize = n
		}
	}
	if v := os.Getenv("SLACKMOJI_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("SLACKMOJI_OUTPUT_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.Verbose = b
		}
	}
}

// Validate checks that the configuration is sufficient for remote calls.
func (c *Config) Validate() error {
	if c.Slack.Token == "" {
		return errors.New("no Slack token configured (set SLACK_TOKEN or slack.token in the config file)")
	}
	if c.Slack.Workspace == "" {
		return errors.New("no Slack workspace configured (set SLACK_WORKSPACE or slack.workspace in the config file)")
	}
	return nil
}
