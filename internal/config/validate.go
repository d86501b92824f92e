package config

import (
	"fmt"
	"strings"
)

// Validate checks loaded configuration values.
func Validate(cfg *Config) error {
	if cfg.RefreshInterval < 0 {
		return fmt.Errorf("refresh_interval must be >= 0, got %d", cfg.RefreshInterval)
	}
	if cfg.FileTree.Width < 0 {
		return fmt.Errorf("file_tree.width must be >= 0, got %d", cfg.FileTree.Width)
	}
	for name, color := range map[string]string{
		"selection_bg": cfg.Theme.SelectionBg,
		"selection_fg": cfg.Theme.SelectionFg,
		"statusbar_bg": cfg.Theme.StatusBarBg,
		"statusbar_fg": cfg.Theme.StatusBarFg,
		"active_frame": cfg.Theme.ActiveFrame,
	} {
		if color != "" && !ValidateColor(color) {
			return fmt.Errorf("invalid color for %s: %q", name, color)
		}
	}
	return nil
}

// ValidateColor checks if a color string is one of the supported terminal
// colors.
func ValidateColor(color string) bool {
	validColors := map[string]bool{
		"default": true,
		"black":   true,
		"red":     true,
		"green":   true,
		"yellow":  true,
		"blue":    true,
		"magenta": true,
		"cyan":    true,
		"white":   true,
	}
	return validColors[strings.ToLower(color)]
}
