package config

import (
	"path/filepath"
	"strings"
)

// normalizeConfig normalizes configuration values.
func normalizeConfig(c *Config) {
	// Normalize log level to lowercase
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))

	c.Path = strings.TrimSpace(c.Path)
	if c.Path != "" {
		if abs, err := filepath.Abs(c.Path); err == nil {
			c.Path = abs
		}
	}

	c.Host = strings.TrimSpace(c.Host)
}

// parseFlag reports whether s spells true: "true", "1" or "yes", any case.
func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
