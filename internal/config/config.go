// Package config handles application configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	// DataDir is the directory for persistent data (log file, config).
	DataDir string `yaml:"-"`

	// DefaultShell is the shell spawned for shell buffers. Empty means
	// resolve from $SHELL with a platform fallback.
	DefaultShell string `yaml:"default_shell"`

	// RefreshInterval is how often idle shells are polled, in milliseconds.
	RefreshInterval int `yaml:"refresh_interval"`

	// FileTree configures the directory sidebar.
	FileTree FileTree `yaml:"file_tree"`

	// Theme contains appearance configuration.
	Theme Theme `yaml:"theme"`
}

// FileTree holds directory-sidebar configuration.
type FileTree struct {
	Width      int  `yaml:"width"`
	ShowHidden bool `yaml:"show_hidden"`
}

// Theme holds color configuration.
type Theme struct {
	SelectionBg string `yaml:"selection_bg"`
	SelectionFg string `yaml:"selection_fg"`
	StatusBarBg string `yaml:"statusbar_bg"`
	StatusBarFg string `yaml:"statusbar_fg"`
	ActiveFrame string `yaml:"active_frame"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		DataDir:         defaultDataDir(),
		DefaultShell:    "",
		RefreshInterval: 100,
		FileTree: FileTree{
			Width:      30,
			ShowHidden: false,
		},
		Theme: Theme{
			SelectionBg: "blue",
			SelectionFg: "white",
			StatusBarBg: "white",
			StatusBarFg: "black",
			ActiveFrame: "green",
		},
	}
}

// defaultDataDir returns the per-user data directory, honouring
// XDG_CONFIG_HOME.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vigor")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vigor"
	}
	return filepath.Join(home, ".config", "vigor")
}

// Load reads the config file from the data dir. A missing file yields the
// defaults; a malformed or invalid file is an error.
func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(cfg.ConfigFile())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFile returns the path of the yaml config file.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "config.yaml")
}

// LogFile returns the path of the session log file.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "vigor.log")
}

// EnsureDataDir creates the data directory if needed.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0o755)
}
