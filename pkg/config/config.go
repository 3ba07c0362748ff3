package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults for the triage run
const (
	DefaultOwner        = "elvatis"
	DefaultRepoPrefix   = "openclaw-"
	DefaultPerRepoLimit = 30
)

// Config represents the triagectl configuration
type Config struct {
	GitHub GitHubConfig `yaml:"github"`
	Triage TriageConfig `yaml:"triage"`
}

// GitHubConfig represents GitHub-specific configuration
type GitHubConfig struct {
	Token string `yaml:"token,omitempty"`
}

// TriageConfig represents the triage run settings
type TriageConfig struct {
	Owner        string `yaml:"owner"`
	RepoPrefix   string `yaml:"repo_prefix"`
	PerRepoLimit int    `yaml:"per_repo_limit"`
	SkipArchived *bool  `yaml:"skip_archived,omitempty"`
	SkipForks    *bool  `yaml:"skip_forks,omitempty"`
}

// LoadConfig loads configuration from the default location and applies
// environment overrides on top
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// ApplyEnv overrides configuration values from the environment:
// GH_OWNER, REPO_PREFIX, PER_REPO_LIMIT, SKIP_ARCHIVED, SKIP_FORKS.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("GH_OWNER"); v != "" {
		c.Triage.Owner = v
	}
	if v := os.Getenv("REPO_PREFIX"); v != "" {
		c.Triage.RepoPrefix = v
	}
	if v := os.Getenv("PER_REPO_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PER_REPO_LIMIT %q: %w", v, err)
		}
		c.Triage.PerRepoLimit = limit
	}
	if v, ok := os.LookupEnv("SKIP_ARCHIVED"); ok {
		b := ParseBool(v)
		c.Triage.SkipArchived = &b
	}
	if v, ok := os.LookupEnv("SKIP_FORKS"); ok {
		b := ParseBool(v)
		c.Triage.SkipForks = &b
	}
	return nil
}

// ParseBool interprets an environment-style boolean. Anything other than
// "0", "false", "no" (any case) or empty counts as true.
func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

// Owner returns the configured owner or the default
func (c *Config) Owner() string {
	if c.Triage.Owner != "" {
		return c.Triage.Owner
	}
	return DefaultOwner
}

// RepoPrefix returns the configured repository name prefix or the default
func (c *Config) RepoPrefix() string {
	if c.Triage.RepoPrefix != "" {
		return c.Triage.RepoPrefix
	}
	return DefaultRepoPrefix
}

// PerRepoLimit returns the configured per-repository issue limit or the default
func (c *Config) PerRepoLimit() int {
	if c.Triage.PerRepoLimit > 0 {
		return c.Triage.PerRepoLimit
	}
	return DefaultPerRepoLimit
}

// SkipArchived reports whether archived repositories are excluded (default true)
func (c *Config) SkipArchived() bool {
	if c.Triage.SkipArchived != nil {
		return *c.Triage.SkipArchived
	}
	return true
}

// SkipForks reports whether forks are excluded (default true)
func (c *Config) SkipForks() bool {
	if c.Triage.SkipForks != nil {
		return *c.Triage.SkipForks
	}
	return true
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
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

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".triagectl", "config.yaml"), nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Zero means unset; the accessor falls back to the default
	if c.Triage.PerRepoLimit < 0 {
		return fmt.Errorf("per_repo_limit must not be negative")
	}

	return nil
}
