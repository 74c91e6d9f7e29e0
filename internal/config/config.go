// Package config loads and validates the optional .mdgate YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quillon/mdgate/internal/guard"
)

// FileName is the config file looked up in the working directory and
// then the user's home directory.
const FileName = ".mdgate"

// Default values for runner and facade configuration.
const (
	DefaultTimeout         = 60 * time.Second
	DefaultMaxOutput       = 1 << 20 // 1 MB
	DefaultGrace           = 3 * time.Second
	DefaultActivityEntries = 200
	DefaultLogWindow       = "1h"
)

// Config holds the parsed .mdgate configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version            int         `yaml:"version"`
	RawTimeout         string      `yaml:"timeout"`          // e.g. "60s", "2m"
	RawMaxOutput       int         `yaml:"max_output"`       // bytes per stream
	RawGrace           string      `yaml:"grace"`            // SIGTERM-to-SIGKILL window
	RawActivityEntries int         `yaml:"activity_entries"` // activity log capacity
	RawProtected       []string    `yaml:"protected_volumes"`
	RawLogWindow       string      `yaml:"log_window"` // --last window for log show
	Tools              ToolsConfig `yaml:"tools"`
}

// ToolsConfig overrides the external tool names, mainly for tests.
type ToolsConfig struct {
	Mdfind string `yaml:"mdfind"`
	Mdutil string `yaml:"mdutil"`
	Mdls   string `yaml:"mdls"`
	Log    string `yaml:"log"`
}

// Timeout returns the configured buffered-run timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// Grace returns the cancellation escalation window or the default.
func (c *Config) Grace() time.Duration {
	if c.RawGrace != "" {
		d, err := time.ParseDuration(c.RawGrace)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultGrace
}

// ActivityEntries returns the activity log capacity or the default.
func (c *Config) ActivityEntries() int {
	if c.RawActivityEntries > 0 {
		return c.RawActivityEntries
	}
	return DefaultActivityEntries
}

// Protected returns the protected volume names, falling back to the
// built-in default.
func (c *Config) Protected() []string {
	if len(c.RawProtected) > 0 {
		return c.RawProtected
	}
	return []string{guard.DefaultProtected}
}

// LogWindow returns the --last window for buffered log queries.
func (c *Config) LogWindow() string {
	if c.RawLogWindow != "" {
		return c.RawLogWindow
	}
	return DefaultLogWindow
}

// Mdfind returns the search tool name.
func (c *Config) Mdfind() string { return orDefault(c.Tools.Mdfind, "mdfind") }

// Mdutil returns the index status/management tool name.
func (c *Config) Mdutil() string { return orDefault(c.Tools.Mdutil, "mdutil") }

// Mdls returns the metadata tool name.
func (c *Config) Mdls() string { return orDefault(c.Tools.Mdls, "mdls") }

// LogTool returns the system log tool name.
func (c *Config) LogTool() string { return orDefault(c.Tools.Log, "log") }

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

// Load reads the .mdgate file from dir, falling back to the user's
// home directory. A missing file yields a default Config.
func Load(dir string) (*Config, error) {
	paths := []string{filepath.Join(dir, FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, FileName))
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		cfg := &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return cfg, nil
	}
	return &Config{}, nil
}
