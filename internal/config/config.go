package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// LocalConfigFile is looked up in the working directory before the XDG location
const LocalConfigFile = "sitegen.yaml"

// Config represents the sitegen configuration
type Config struct {
	ContentDir      string        `yaml:"content_dir"`
	StaticDir       string        `yaml:"static_dir"`
	PublicDir       string        `yaml:"public_dir"`
	Template        string        `yaml:"template"`
	BasePath        string        `yaml:"base_path"`
	LogFile         string        `yaml:"log_file,omitempty"`
	LogLevel        string        `yaml:"log_level"`
	StateFile       string        `yaml:"state_file"`
	Interval        time.Duration `yaml:"-"` // Custom YAML handling below
	Workers         int           `yaml:"workers"`
	ExcludePatterns []string      `yaml:"exclude_patterns,omitempty"`
}

// rawConfig mirrors Config with the interval as a duration string
type rawConfig struct {
	ContentDir      string   `yaml:"content_dir"`
	StaticDir       string   `yaml:"static_dir"`
	PublicDir       string   `yaml:"public_dir"`
	Template        string   `yaml:"template"`
	BasePath        string   `yaml:"base_path"`
	LogFile         string   `yaml:"log_file,omitempty"`
	LogLevel        string   `yaml:"log_level"`
	StateFile       string   `yaml:"state_file"`
	Interval        string   `yaml:"interval"`
	Workers         int      `yaml:"workers"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		ContentDir:      "content",
		StaticDir:       "static",
		PublicDir:       "public",
		Template:        "template.html",
		BasePath:        "/",
		LogLevel:        "info",
		StateFile:       StateFilePath(),
		Interval:        2 * time.Second,
		Workers:         1,
		ExcludePatterns: []string{},
	}
}

// ConfigPath returns the path to the user-level config file
// Can be overridden for testing
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "sitegen", "config.yaml")
}

// StateFilePath returns the default path of the build manifest
// Can be overridden for testing
var StateFilePath = func() string {
	return filepath.Join(xdg.CacheHome, "sitegen", "state.json")
}

// Resolve picks the config file to use: the explicit path, ./sitegen.yaml,
// then the XDG config file. An empty result means defaults only.
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	if _, err := os.Stat(ConfigPath()); err == nil {
		return ConfigPath()
	}
	return ""
}

// Load reads configuration from path, falling back to defaults when path is
// empty or missing. Missing fields keep their default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, cfg.finish()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.finish()
		}
		return nil, err
	}

	raw := cfg.toRaw()
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	interval, err := time.ParseDuration(raw.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
	}

	excludePatterns := raw.ExcludePatterns
	if excludePatterns == nil {
		excludePatterns = []string{}
	}

	cfg = &Config{
		ContentDir:      raw.ContentDir,
		StaticDir:       raw.StaticDir,
		PublicDir:       raw.PublicDir,
		Template:        raw.Template,
		BasePath:        raw.BasePath,
		LogFile:         raw.LogFile,
		LogLevel:        raw.LogLevel,
		StateFile:       raw.StateFile,
		Interval:        interval,
		Workers:         raw.Workers,
		ExcludePatterns: excludePatterns,
	}

	return cfg, cfg.finish()
}

// finish validates and expands paths after loading
func (c *Config) finish() error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := c.ExpandPaths(); err != nil {
		return fmt.Errorf("failed to expand paths: %w", err)
	}
	return nil
}

func (c *Config) toRaw() rawConfig {
	return rawConfig{
		ContentDir:      c.ContentDir,
		StaticDir:       c.StaticDir,
		PublicDir:       c.PublicDir,
		Template:        c.Template,
		BasePath:        c.BasePath,
		LogFile:         c.LogFile,
		LogLevel:        c.LogLevel,
		StateFile:       c.StateFile,
		Interval:        c.Interval.String(),
		Workers:         c.Workers,
		ExcludePatterns: c.ExcludePatterns,
	}
}

// Save writes configuration to path as YAML
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c.toRaw())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.PublicDir == "" {
		return fmt.Errorf("public_dir cannot be empty")
	}
	if c.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if c.StateFile == "" {
		return fmt.Errorf("state_file cannot be empty")
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("invalid base_path '%s': must start with /", c.BasePath)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}
	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern '%s': %w", pattern, err)
		}
	}
	if c.StaticDir != "" && filepath.Clean(c.StaticDir) == filepath.Clean(c.PublicDir) {
		return fmt.Errorf("static_dir and public_dir must differ")
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	fields := []struct {
		name string
		ptr  *string
	}{
		{"content_dir", &c.ContentDir},
		{"static_dir", &c.StaticDir},
		{"public_dir", &c.PublicDir},
		{"template", &c.Template},
		{"log_file", &c.LogFile},
		{"state_file", &c.StateFile},
	}

	for _, f := range fields {
		expanded, err := expandPath(*f.ptr)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", f.name, err)
		}
		*f.ptr = expanded
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
